package services

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ocdrive/ocdrive/internal/config"
	"github.com/ocdrive/ocdrive/internal/logging"
	"github.com/ocdrive/ocdrive/internal/remote"
	"github.com/ocdrive/ocdrive/pkg/mapper"
	"github.com/ocdrive/ocdrive/pkg/models"
)

type FileService struct {
	client      *remote.Client
	concurrency int
	logger      *zap.Logger
}

func NewFileService(client *remote.Client, cnf *config.RemoteConfig) *FileService {
	return &FileService{
		client:      client,
		concurrency: max(cnf.Concurrency, 1),
		logger:      logging.Component("files"),
	}
}

func (s *FileService) List(ctx context.Context, path string) ([]*models.File, error) {
	files, err := WaitForResult[[]remote.RemoteFile](ctx, remote.ReadFolder{Path: path}, s.client)
	if err != nil {
		return nil, err
	}
	return mapper.ToFiles(files), nil
}

func (s *FileService) Exists(ctx context.Context, path string) (bool, error) {
	return WaitForResult[bool](ctx, remote.CheckPathExistence{Path: path, SuccessIfAbsent: true}, s.client)
}

func (s *FileService) CreateFolder(ctx context.Context, path string, parents bool) error {
	_, err := WaitForResult[struct{}](ctx, remote.CreateFolder{Path: path, CreateParents: parents}, s.client)
	return err
}

func (s *FileService) Move(ctx context.Context, source, target string, overwrite bool) error {
	_, err := WaitForResult[struct{}](ctx, remote.MoveFile{Source: source, Target: target, Overwrite: overwrite}, s.client)
	return err
}

func (s *FileService) Copy(ctx context.Context, source, target string, overwrite bool) error {
	_, err := WaitForResult[struct{}](ctx, remote.CopyFile{Source: source, Target: target, Overwrite: overwrite}, s.client)
	return err
}

// Remove deletes paths concurrently. The first failure cancels the requests
// not yet sent and is returned.
func (s *FileService) Remove(ctx context.Context, paths ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, p := range paths {
		g.Go(func() error {
			if _, err := WaitForResult[struct{}](ctx, remote.RemoveFile{Path: p}, s.client); err != nil {
				s.logger.Debug("remove.failed", zap.String("path", p), zap.Error(err))
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

// Upload and Download return as soon as ctx is done, without waiting for the
// transfer to unwind.
func (s *FileService) Upload(ctx context.Context, localPath, remotePath string) (*models.File, error) {
	f, err := AwaitResult[*remote.RemoteFile](ctx, remote.UploadFile{LocalPath: localPath, RemotePath: remotePath}, s.client)
	if err != nil {
		return nil, err
	}
	return mapper.ToFile(f), nil
}

func (s *FileService) Download(ctx context.Context, remotePath, localPath string) (int64, error) {
	return AwaitResult[int64](ctx, remote.DownloadFile{RemotePath: remotePath, LocalPath: localPath}, s.client)
}
