package dto

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
)

func bindJSON(t *testing.T, body string, obj any) error {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return binding.JSON.Bind(req, obj)
}

func TestLocationReportRequestBinding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name: "valid report",
			body: `{"busId":"6f1c1b1e-2a8e-4d0a-9c1f-3f8b2a6d9e01","latitude":41.0082,"longitude":28.9784}`,
		},
		{
			// The equator and the prime meridian are real places.
			name: "zero coordinates",
			body: `{"busId":"6f1c1b1e-2a8e-4d0a-9c1f-3f8b2a6d9e01","latitude":0,"longitude":0}`,
		},
		{
			name:    "latitude out of range",
			body:    `{"busId":"6f1c1b1e-2a8e-4d0a-9c1f-3f8b2a6d9e01","latitude":91,"longitude":0}`,
			wantErr: true,
		},
		{
			name:    "longitude out of range",
			body:    `{"busId":"6f1c1b1e-2a8e-4d0a-9c1f-3f8b2a6d9e01","latitude":0,"longitude":-181}`,
			wantErr: true,
		},
		{
			name:    "missing bus id",
			body:    `{"latitude":41.0082,"longitude":28.9784}`,
			wantErr: true,
		},
		{
			name:    "negative speed",
			body:    `{"busId":"6f1c1b1e-2a8e-4d0a-9c1f-3f8b2a6d9e01","latitude":0,"longitude":0,"speed":-1}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var req LocationReportRequest
			err := bindJSON(t, tt.body, &req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("bind error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAttendanceLogRequestBinding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name: "valid entry",
			body: `{"studentId":"9a3d5c7e-1b2f-4e6a-8d0c-5f7b9a1c3e02","busId":"6f1c1b1e-2a8e-4d0a-9c1f-3f8b2a6d9e01","status":"BOARDED","latitude":41.0082,"longitude":28.9784}`,
		},
		{
			name: "zero coordinates",
			body: `{"studentId":"9a3d5c7e-1b2f-4e6a-8d0c-5f7b9a1c3e02","busId":"6f1c1b1e-2a8e-4d0a-9c1f-3f8b2a6d9e01","status":"ALIGHTED","latitude":0,"longitude":0}`,
		},
		{
			name:    "latitude out of range",
			body:    `{"studentId":"9a3d5c7e-1b2f-4e6a-8d0c-5f7b9a1c3e02","busId":"6f1c1b1e-2a8e-4d0a-9c1f-3f8b2a6d9e01","status":"BOARDED","latitude":-91,"longitude":0}`,
			wantErr: true,
		},
		{
			name:    "missing status",
			body:    `{"studentId":"9a3d5c7e-1b2f-4e6a-8d0c-5f7b9a1c3e02","busId":"6f1c1b1e-2a8e-4d0a-9c1f-3f8b2a6d9e01","latitude":0,"longitude":0}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var req AttendanceLogRequest
			err := bindJSON(t, tt.body, &req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("bind error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
