package docstore

import (
	"errors"
	"fmt"
	"testing"

	"github.com/minio/minio-go/v7"
)

func TestIsNoSuchKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"missing object", minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404}, true},
		{"wrapped missing object", fmt.Errorf("read: %w", minio.ErrorResponse{Code: "NoSuchKey"}), true},
		{"missing bucket", minio.ErrorResponse{Code: "NoSuchBucket", StatusCode: 404}, false},
		{"access denied", minio.ErrorResponse{Code: "AccessDenied", StatusCode: 403}, false},
		{"other error", errors.New("connection reset"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isNoSuchKey(tt.err); got != tt.want {
				t.Errorf("isNoSuchKey() = %v, want %v", got, tt.want)
			}
		})
	}
}
