// Copyright 2025 The MarketDetective Authors
// SPDX-License-Identifier: Apache-2.0

package htmlutils

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

func newResponse(status int, contentType, body string) *http.Response {
	header := make(http.Header)
	header.Set("Content-Type", contentType)

	return &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestAsReader(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		want        string
		wantErr     bool
	}{
		{
			name:        "plain utf-8 html",
			status:      http.StatusOK,
			contentType: "text/html; charset=utf-8",
			body:        "<html><body>₦1,200,000</body></html>",
			want:        "<html><body>₦1,200,000</body></html>",
		},
		{
			name:        "non-200 status",
			status:      http.StatusTooManyRequests,
			contentType: "text/html",
			body:        "slow down",
			wantErr:     true,
		},
		{
			name:        "non-html media type",
			status:      http.StatusOK,
			contentType: "application/json",
			body:        `{"a":1}`,
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := AsReader(newResponse(tt.status, tt.contentType, tt.body))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}

				return
			}

			if err != nil {
				t.Fatalf("AsReader: %v", err)
			}

			data, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("reading: %v", err)
			}

			if string(data) != tt.want {
				t.Errorf("got %q, want %q", string(data), tt.want)
			}
		})
	}
}
