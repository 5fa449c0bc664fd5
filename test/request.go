package test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

var baseURL, _ = url.Parse("http://taskview.test/")

// Client 在多次请求之间保留 cookie，模拟同一个浏览器
type Client struct {
	t       *testing.T
	handler http.Handler
	jar     *cookiejar.Jar
}

func NewClient(t *testing.T, handler http.Handler) *Client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &Client{t: t, handler: handler, jar: jar}
}

// Do 发送请求，Accept 默认为 application/json
func (c *Client) Do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	for _, cookie := range c.jar.Cookies(baseURL) {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	c.jar.SetCookies(baseURL, w.Result().Cookies())
	return w
}

func (c *Client) Get(path string) *httptest.ResponseRecorder {
	return c.Do(httptest.NewRequest(http.MethodGet, path, nil))
}

// GetHTML 以浏览器的 Accept 头请求页面
func (c *Client) GetHTML(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*;q=0.8")
	return c.Do(req)
}

func (c *Client) Post(path string) *httptest.ResponseRecorder {
	return c.Do(httptest.NewRequest(http.MethodPost, path, nil))
}

func (c *Client) PostJSON(path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	b, err := json.Marshal(body)
	require.NoError(c.t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return c.Do(req)
}

// File 上传的附件
type File struct {
	Name    string
	Content []byte
}

// PostMultipart file 为 nil 时不带附件
func (c *Client) PostMultipart(path string, fields map[string]string, file *File) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(c.t, mw.WriteField(k, v))
	}
	if file != nil {
		fw, err := mw.CreateFormFile("attachment", file.Name)
		require.NoError(c.t, err)
		_, err = io.Copy(fw, bytes.NewReader(file.Content))
		require.NoError(c.t, err)
	}
	require.NoError(c.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.Do(req)
}
