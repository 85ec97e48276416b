package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	storage_go "github.com/supabase-community/storage-go"
)

// mediaNamespace is the fixed folder every uploaded post image lands under,
// regardless of the backing store.
const mediaNamespace = "posts"

// MediaStore persists an uploaded image and returns the reference recorded on
// the post.
type MediaStore interface {
	Save(file *multipart.FileHeader) (string, error)
}

// DiskStore writes uploads under a local media directory.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) *DiskStore {
	return &DiskStore{root: root}
}

func (ds *DiskStore) Save(file *multipart.FileHeader) (string, error) {
	name := mediaNamespace + "/" + uuid.New().String() + filepath.Ext(file.Filename)

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	target := filepath.Join(ds.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", err
	}

	dst, err := os.Create(target)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return name, nil
}

// SupabaseStore uploads to a Supabase storage bucket.
type SupabaseStore struct {
	client *storage_go.Client
	bucket string
}

func NewSupabaseStore(url, key, bucket string) *SupabaseStore {
	return &SupabaseStore{
		client: storage_go.NewClient(url, key, nil),
		bucket: bucket,
	}
}

func (ss *SupabaseStore) Save(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		return "", err
	}
	contentType := http.DetectContentType(head[:n])

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	name := mediaNamespace + "/" + uuid.New().String() + filepath.Ext(file.Filename)
	_, err = ss.client.UploadFile(ss.bucket, name, src, storage_go.FileOptions{ContentType: &contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return name, nil
}
