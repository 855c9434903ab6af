package crawlers

import (
	"bytes"
	"compress/flate"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RecoveryAshes/docsnap/internal/models"
	"github.com/andybalholm/brotli"
)

type staticHeaders http.Header

func (h staticHeaders) GetHeaders() (http.Header, error) {
	return http.Header(h), nil
}

func TestCollyFetcher_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte("<html><title>OK</title></html>"))
		case "/headers":
			w.Write([]byte(r.Header.Get("X-Archive-Run")))
		case "/br":
			var buf bytes.Buffer
			bw := brotli.NewWriter(&buf)
			bw.Write([]byte("<html>brotli</html>"))
			bw.Close()
			w.Header().Set("Content-Encoding", "br")
			w.Write(buf.Bytes())
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	f := NewCollyFetcher(0, staticHeaders{"X-Archive-Run": []string{"test-run"}})
	ctx := context.Background()

	t.Run("正常页面", func(t *testing.T) {
		body, err := f.Fetch(ctx, server.URL+"/ok")
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if string(body) != "<html><title>OK</title></html>" {
			t.Errorf("body = %q", body)
		}
	})

	t.Run("同一URL可重复抓取", func(t *testing.T) {
		if _, err := f.Fetch(ctx, server.URL+"/ok"); err != nil {
			t.Fatalf("第二次Fetch() error = %v", err)
		}
	})

	t.Run("自定义头部", func(t *testing.T) {
		body, err := f.Fetch(ctx, server.URL+"/headers")
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if string(body) != "test-run" {
			t.Errorf("服务端收到的头部 = %q, want test-run", body)
		}
	})

	t.Run("brotli压缩", func(t *testing.T) {
		body, err := f.Fetch(ctx, server.URL+"/br")
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if string(body) != "<html>brotli</html>" {
			t.Errorf("body = %q", body)
		}
	})

	t.Run("404返回FetchError", func(t *testing.T) {
		_, err := f.Fetch(ctx, server.URL+"/missing")
		var fe *models.FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("期望FetchError, 得到 %v", err)
		}
		if fe.StatusCode != http.StatusNotFound {
			t.Errorf("StatusCode = %d, want 404", fe.StatusCode)
		}
	})

	t.Run("已取消的context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := f.Fetch(cancelled, server.URL+"/ok")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("期望context.Canceled, 得到 %v", err)
		}
	})
}

func TestCollyFetcher_Fetch_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	_, err := NewCollyFetcher(0, nil).Fetch(context.Background(), addr+"/gone")
	var fe *models.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("期望FetchError, 得到 %v", err)
	}
	if fe.StatusCode != 0 {
		t.Errorf("网络错误时StatusCode应为0, got %d", fe.StatusCode)
	}
}

func TestDecompressBody(t *testing.T) {
	var deflated bytes.Buffer
	fw, _ := flate.NewWriter(&deflated, flate.DefaultCompression)
	fw.Write([]byte("deflate body"))
	fw.Close()

	tests := []struct {
		name     string
		encoding string
		body     []byte
		want     string
		wantErr  bool
	}{
		{"无编码", "", []byte("plain"), "plain", false},
		{"gzip已由Colly处理", "gzip", []byte("already"), "already", false},
		{"deflate", "Deflate", deflated.Bytes(), "deflate body", false},
		{"未知编码原样返回", "zstd", []byte("raw"), "raw", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decompressBody(tt.encoding, tt.body)
			if (err != nil) != tt.wantErr {
				t.Fatalf("decompressBody() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && string(got) != tt.want {
				t.Errorf("decompressBody() = %q, want %q", got, tt.want)
			}
		})
	}
}
