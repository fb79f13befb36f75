package media

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
)

func header(name, contentType string, size int64) *multipart.FileHeader {
	h := textproto.MIMEHeader{}
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &multipart.FileHeader{Filename: name, Size: size, Header: h}
}

func TestValidateImage(t *testing.T) {
	require.NoError(t, ValidateImage(header("me.png", "image/png", 1024)))
	require.NoError(t, ValidateImage(header("me.JPG", "", MaxImageSize)))
	require.NoError(t, ValidateImage(header("me.webp", "application/octet-stream", 10)))

	require.Error(t, ValidateImage(nil))
	require.Error(t, ValidateImage(header("me.png", "image/png", MaxImageSize+1)))
	require.Error(t, ValidateImage(header("me.gif", "image/gif", 10)))
	require.Error(t, ValidateImage(header("me.png", "text/html", 10)))
}

func TestDisabledUploader(t *testing.T) {
	_, err := Disabled{}.Upload(context.Background(), strings.NewReader("x"), "a.png", FolderBlogImages)
	require.ErrorIs(t, err, ErrNotConfigured)
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3UploaderUpload(t *testing.T) {
	fake := &fakeS3{}
	u := newS3Uploader(fake, S3Config{Bucket: "blogs", Endpoint: "http://localhost:9000/"})
	u.now = func() time.Time { return time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC) }

	url, err := u.Upload(context.Background(), strings.NewReader("pixels"), "cat.PNG", FolderBlogImages)
	require.NoError(t, err)

	require.Equal(t, "blogs", *fake.input.Bucket)
	require.Equal(t, "image/png", *fake.input.ContentType)
	require.Equal(t, "pixels", fake.body)
	require.True(t, strings.HasPrefix(*fake.input.Key, "blogImages/2024/03/07/"))
	require.True(t, strings.HasSuffix(*fake.input.Key, ".png"))
	require.Equal(t, "http://localhost:9000/blogs/"+*fake.input.Key, url)
}

func TestS3UploaderDefaultsToAWSURL(t *testing.T) {
	u := newS3Uploader(&fakeS3{}, S3Config{Bucket: "blogs", Region: "eu-west-1"})
	require.Equal(t, "https://blogs.s3.eu-west-1.amazonaws.com", u.baseURL)

	u = newS3Uploader(&fakeS3{err: errors.New("denied")}, S3Config{Bucket: "blogs", PublicBaseURL: "https://cdn.example.com/"})
	require.Equal(t, "https://cdn.example.com", u.baseURL)
	_, err := u.Upload(context.Background(), strings.NewReader("x"), "a.jpg", FolderProfilePics)
	require.Error(t, err)
}
