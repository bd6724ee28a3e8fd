package media

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	sc "github.com/mpetrenko/clipstream/internal/server/config"
)

func newTestStore() *Store {
	return NewStore(&sc.Config{
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "clipstream",
	})
}

func TestNewStorageKey(t *testing.T) {
	k1 := NewStorageKey("videos")
	k2 := NewStorageKey("videos")

	if !strings.HasPrefix(k1, "videos/") {
		t.Fatalf("expected videos/ prefix, got %q", k1)
	}
	if k1 == k2 {
		t.Fatalf("expected unique keys, got %q twice", k1)
	}
	if len(strings.Split(k1, "/")) != 5 {
		t.Fatalf("expected prefix/year/month/day/uuid layout, got %q", k1)
	}
}

func Test_getClient_AppliesConfig(t *testing.T) {
	store := newTestStore()

	origLoad := loadDefaultAWSConfig
	origNew := newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				t.Fatalf("load options fn error: %v", err)
			}
		}
		if lo.Region != "us-east-1" {
			t.Fatalf("region not applied: %q", lo.Region)
		}
		return aws.Config{}, nil
	}

	var capturedBaseEndpoint string
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		if opts.BaseEndpoint == nil {
			t.Fatalf("BaseEndpoint not set")
		}
		capturedBaseEndpoint = *opts.BaseEndpoint
		if !opts.UsePathStyle {
			t.Fatalf("expected path-style addressing")
		}
		return &s3.Client{}
	}

	client, err := store.getClient()
	if err != nil {
		t.Fatalf("getClient error: %v", err)
	}
	if client == nil {
		t.Fatalf("expected client")
	}
	if capturedBaseEndpoint != "http://127.0.0.1:9000" {
		t.Fatalf("base endpoint not applied: %q", capturedBaseEndpoint)
	}
}

func Test_getClient_LoadConfigError(t *testing.T) {
	store := newTestStore()

	origLoad := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = origLoad })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("boom")
	}

	if _, err := store.getClient(); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := store.PresignGet(context.Background(), "k"); err == nil {
		t.Fatalf("expected PresignGet to propagate client error")
	}
	if err := store.Delete(context.Background(), "k"); err == nil {
		t.Fatalf("expected Delete to propagate client error")
	}
	if err := store.Upload(context.Background(), "k", "video/mp4", strings.NewReader("x")); err == nil {
		t.Fatalf("expected Upload to propagate client error")
	}
}
