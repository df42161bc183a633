package jobs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/index-settings-sync/internal/jobs"
	"github.com/stacklok/index-settings-sync/internal/searchapi"
	searchmocks "github.com/stacklok/index-settings-sync/internal/searchapi/mocks"
)

func TestObjectID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		encoded string
		want    jobs.ObjectRef
		wantErr bool
	}{
		{name: "simple", encoded: "App\\Product::42", want: jobs.ObjectRef{Type: "App\\Product", ID: "42"}},
		{name: "separator in type", encoded: "a::b::7", want: jobs.ObjectRef{Type: "a::b", ID: "7"}},
		{name: "no separator", encoded: "42", wantErr: true},
		{name: "empty type", encoded: "::42", wantErr: true},
		{name: "empty id", encoded: "Product::", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := jobs.ParseObjectID(tt.encoded)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.encoded, jobs.EncodeObjectID(got))
		})
	}
}

func TestDeleteJob_Handle(t *testing.T) {
	t.Parallel()

	objects := []jobs.ObjectRef{{Type: "Product", ID: "1"}, {Type: "Product", ID: "2"}}
	wantTags := [][]string{{"Product::1", "Product::2"}}
	boom := errors.New("boom")

	tests := []struct {
		name        string
		job         jobs.DeleteJob
		synchronous bool
		setup       func(client *searchmocks.MockClient)
		wantErr     error
	}{
		{
			name:  "empty job is a no-op",
			job:   jobs.DeleteJob{Index: "products"},
			setup: func(*searchmocks.MockClient) {},
		},
		{
			name: "asynchronous",
			job:  jobs.DeleteJob{Index: "products", Objects: objects},
			setup: func(client *searchmocks.MockClient) {
				client.EXPECT().DeleteBy(gomock.Any(), "products", wantTags).Return(searchapi.TaskID(9), nil)
			},
		},
		{
			name:        "synchronous waits for the task",
			job:         jobs.DeleteJob{Index: "products", Objects: objects},
			synchronous: true,
			setup: func(client *searchmocks.MockClient) {
				client.EXPECT().DeleteBy(gomock.Any(), "products", wantTags).Return(searchapi.TaskID(9), nil)
				client.EXPECT().WaitForTask(gomock.Any(), "products", searchapi.TaskID(9)).Return(nil)
			},
		},
		{
			name: "delete failure",
			job:  jobs.DeleteJob{Index: "products", Objects: objects},
			setup: func(client *searchmocks.MockClient) {
				client.EXPECT().DeleteBy(gomock.Any(), "products", wantTags).Return(searchapi.TaskID(0), boom)
			},
			wantErr: boom,
		},
		{
			name:        "wait failure",
			job:         jobs.DeleteJob{Index: "products", Objects: objects},
			synchronous: true,
			setup: func(client *searchmocks.MockClient) {
				client.EXPECT().DeleteBy(gomock.Any(), "products", wantTags).Return(searchapi.TaskID(3), nil)
				client.EXPECT().WaitForTask(gomock.Any(), "products", searchapi.TaskID(3)).Return(boom)
			},
			wantErr: boom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			client := searchmocks.NewMockClient(ctrl)
			tt.setup(client)

			err := tt.job.Handle(context.Background(), client, tt.synchronous)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}
