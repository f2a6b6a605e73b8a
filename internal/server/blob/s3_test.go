package blob

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string]string
	putErr  error
	headErr error
	lastCT  string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	b, _ := io.ReadAll(in.Body)
	f.objects[aws.ToString(in.Key)] = string(b)
	f.lastCT = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &smithy.GenericAPIError{Code: "NotFound", Message: "not found"}
	}
	return &s3.HeadObjectOutput{}, nil
}

func withFakeS3(t *testing.T, fake *fakeS3) *s3.Options {
	t.Helper()
	origLoad, origNew := loadDefaultAWSConfig, newS3Client
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3Client = origNew
	})

	applied := &s3.Options{}
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		require.Equal(t, "us-east-1", lo.Region)
		require.NotNil(t, lo.Credentials)
		return aws.Config{Region: lo.Region}, nil
	}
	newS3Client = func(cfg aws.Config, optFns ...func(*s3.Options)) s3API {
		for _, fn := range optFns {
			fn(applied)
		}
		return fake
	}
	return applied
}

func newTestS3Store(t *testing.T, fake *fakeS3) (*S3Store, *s3.Options) {
	t.Helper()
	applied := withFakeS3(t, fake)
	s, err := NewS3Store(context.Background(), S3Config{
		Region:       "us-east-1",
		Endpoint:     "http://127.0.0.1:9000/",
		Bucket:       "images",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		UsePathStyle: true,
	})
	require.NoError(t, err)
	return s, applied
}

func TestNewS3Store_AppliesOptions(t *testing.T) {
	s, applied := newTestS3Store(t, &fakeS3{objects: map[string]string{}})

	assert.Equal(t, "http://127.0.0.1:9000/", aws.ToString(applied.BaseEndpoint))
	assert.True(t, applied.UsePathStyle)
	assert.Equal(t, "http://127.0.0.1:9000/images/k.png", s.URL("k.png"))
}

func TestNewS3Store_Errors(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Config{})
	require.Error(t, err)

	withFakeS3(t, &fakeS3{})
	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}
	_, err = NewS3Store(context.Background(), S3Config{Bucket: "b"})
	require.ErrorContains(t, err, "no config")
}

func TestS3Store_Lifecycle(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{}}
	s, _ := newTestS3Store(t, fake)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k.png", strings.NewReader("img"), 3, "image/png"))
	assert.Equal(t, "img", fake.objects["k.png"])
	assert.Equal(t, "image/png", fake.lastCT)

	ok, err := s.Exists(ctx, "k.png")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Delete(ctx, "k.png"))
	ok, err = s.Exists(ctx, "k.png")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestS3Store_Errors(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{}, putErr: errors.New("bucket gone"), headErr: errors.New("timeout")}
	s, _ := newTestS3Store(t, fake)

	err := s.Put(context.Background(), "k.png", strings.NewReader("x"), 1, "")
	require.ErrorContains(t, err, "bucket gone")

	_, err = s.Exists(context.Background(), "k.png")
	require.ErrorContains(t, err, "timeout")

	assert.ErrorIs(t, s.Put(context.Background(), "../k", strings.NewReader("x"), 1, ""), ErrInvalidKey)
}
