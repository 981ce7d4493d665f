package publish

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutNamed(t *testing.T) {
	mc := mockMC(t).expectPutObject("fragments", "feeds/post-1.xml", "<media:content/>",
		minio.PutObjectOptions{ContentType: ContentTypeXML}, nil)
	p := New(mc, "fragments", "/feeds/")

	key, err := p.Put(context.Background(), "post-1.xml", ".xml", ContentTypeXML, []byte("<media:content/>"))
	require.NoError(t, err)
	assert.Equal(t, "feeds/post-1.xml", key)
	mc.done()
}

func TestPutGeneratesName(t *testing.T) {
	mc := mockMC(t).expectPutObject("fragments", "", "<div></div>",
		minio.PutObjectOptions{ContentType: ContentTypeHTML}, nil)
	p := New(mc, "fragments", "")

	key, err := p.Put(context.Background(), "", ".html", ContentTypeHTML, []byte("<div></div>"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, ".html"))
	assert.Len(t, key, 36+len(".html"))
	mc.done()
}

func TestPutError(t *testing.T) {
	uploadErr := errors.New("access denied")
	mc := mockMC(t).expectPutObject("fragments", "x.xml", "x", minio.PutObjectOptions{ContentType: ContentTypeXML}, uploadErr)
	p := New(mc, "fragments", "")

	_, err := p.Put(context.Background(), "x.xml", ".xml", ContentTypeXML, []byte("x"))
	assert.ErrorIs(t, err, uploadErr)
	mc.done()
}

func mockMC(t *testing.T) *mcMock {
	return &mcMock{t: t}
}

type mcMock struct {
	t       *testing.T
	mu      sync.Mutex
	expects []mcExpectPutObject
}

type mcExpectPutObject struct {
	bucketName, objectName string
	body                   string
	opts                   minio.PutObjectOptions
	err                    error
}

// expectPutObject accepts any object name when objectName is empty.
func (m *mcMock) expectPutObject(bucketName, objectName, body string, opts minio.PutObjectOptions, err error) *mcMock {
	m.expects = append(m.expects, mcExpectPutObject{bucketName, objectName, body, opts, err})
	return m
}

func (m *mcMock) done() {
	m.t.Helper()
	if len(m.expects) != 0 {
		m.t.Errorf("%d expected uploads not made", len(m.expects))
	}
}

func (m *mcMock) PutObject(_ context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.expects) == 0 {
		m.t.Fatalf("unexpected call to PutObject")
	}
	exp := m.expects[0]
	m.expects = m.expects[1:]

	body, err := io.ReadAll(reader)
	require.NoError(m.t, err)

	assert.Equal(m.t, exp.bucketName, bucketName)
	if exp.objectName != "" {
		assert.Equal(m.t, exp.objectName, objectName)
	}
	assert.Equal(m.t, exp.body, string(body))
	assert.Equal(m.t, int64(len(body)), objectSize)
	assert.Equal(m.t, exp.opts, opts)
	return minio.UploadInfo{Bucket: bucketName, Key: objectName, Size: objectSize}, exp.err
}
