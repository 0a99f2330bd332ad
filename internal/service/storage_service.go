package service

import (
	"context"
	"english_admin/internal/api"
	"english_admin/internal/config"
	"english_admin/internal/util"
	"english_admin/pkg/logger"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// StorageProvider 音频文件的存放位置，返回可直接写入题目 audioFileUrl 的地址
type StorageProvider interface {
	Name() string
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
}

// BackendStorageProvider 上传到平台后端 /files/upload/audio
type BackendStorageProvider struct {
	Client *api.Client
}

func (p *BackendStorageProvider) Name() string { return util.StorageBackend }

func (p *BackendStorageProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	res, err := p.Client.UploadAudio(ctx, filename, reader)
	if err != nil {
		return "", err
	}
	return res.URL, nil
}

// LocalStorageProvider 本地存储实现
type LocalStorageProvider struct {
	Config *config.StorageConfig
}

func (p *LocalStorageProvider) Name() string { return util.StorageLocal }

func (p *LocalStorageProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	dst := filepath.Join(p.Config.LocalPath, filename)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return "", err
	}
	return publicURL(p.Config.PublicBaseURL, "/uploads/"+filename), nil
}

// MinioStorageProvider MinIO存储实现
type MinioStorageProvider struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioStorageProvider(cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioSecure,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorageProvider{Config: cfg, Client: client}, nil
}

func (p *MinioStorageProvider) Name() string { return util.StorageMinio }

func (p *MinioStorageProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.Client.PutObject(ctx, p.Config.MinioBucket, filename, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return publicURL(p.Config.PublicBaseURL, "/"+p.Config.MinioBucket+"/"+filename), nil
}

// OSSStorageProvider 阿里云OSS存储实现
type OSSStorageProvider struct {
	Config *config.StorageConfig
	Client *oss.Client
}

func NewOSSStorageProvider(cfg *config.StorageConfig) (*OSSStorageProvider, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}
	return &OSSStorageProvider{Config: cfg, Client: client}, nil
}

func (p *OSSStorageProvider) Name() string { return util.StorageOSS }

func (p *OSSStorageProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	bucket, err := p.Client.Bucket(p.Config.OSSBucket)
	if err != nil {
		return "", err
	}
	if err := bucket.PutObject(filename, reader, oss.ContentType(contentType), oss.WithContext(ctx)); err != nil {
		return "", err
	}
	return fmt.Sprintf("https://%s.%s/%s", p.Config.OSSBucket, p.Config.OSSEndpoint, filename), nil
}

func publicURL(base, path string) string {
	if base == "" {
		return path
	}
	return strings.TrimRight(base, "/") + path
}

// AudioUpload 上传结果，Info 仅在开启探测时返回
type AudioUpload struct {
	URL         string          `json:"url"`
	Filename    string          `json:"filename"`
	ContentType string          `json:"contentType"`
	Size        int64           `json:"size"`
	Provider    string          `json:"provider"`
	Info        *util.AudioInfo `json:"info,omitempty"`
}

// StorageService 题目音频上传：嗅探类型、限制大小、可选 ffprobe 探测
type StorageService struct {
	Provider StorageProvider
	Media    config.MediaConfig
	// probe 可在测试中替换
	probe func(path string) (*util.AudioInfo, error)
}

func NewStorageService(cfg *config.Config, client *api.Client) *StorageService {
	var provider StorageProvider
	switch cfg.Storage.Type {
	case util.StorageMinio:
		p, err := NewMinioStorageProvider(&cfg.Storage)
		if err != nil {
			logger.L().Error("minio provider unavailable, falling back to backend upload", zap.Error(err))
		} else {
			provider = p
		}
	case util.StorageOSS:
		p, err := NewOSSStorageProvider(&cfg.Storage)
		if err != nil {
			logger.L().Error("oss provider unavailable, falling back to backend upload", zap.Error(err))
		} else {
			provider = p
		}
	case util.StorageLocal:
		provider = &LocalStorageProvider{Config: &cfg.Storage}
	}

	if provider == nil {
		provider = &BackendStorageProvider{Client: client}
	}

	return &StorageService{Provider: provider, Media: cfg.Media, probe: util.GetAudioInfo}
}

func (s *StorageService) maxBytes() int64 {
	if s.Media.MaxAudioMB <= 0 {
		return 20 << 20
	}
	return s.Media.MaxAudioMB << 20
}

// UploadAudio size 为客户端声明的大小，未知时传 -1
func (s *StorageService) UploadAudio(ctx context.Context, filename string, reader io.Reader, size int64) (*AudioUpload, error) {
	limit := s.maxBytes()
	if size > limit {
		return nil, util.ErrAudioTooLarge
	}

	contentType, full, err := util.DetectAudio(reader)
	if err != nil {
		return nil, err
	}

	// 先落到临时文件：统计真实大小，供 ffprobe 读取，也让对象存储拿到确定长度
	tmp, err := os.CreateTemp("", "console-audio-*"+util.AudioExtension(filename))
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	written, err := io.Copy(tmp, io.LimitReader(full, limit+1))
	if err != nil {
		return nil, err
	}
	if written > limit {
		return nil, util.ErrAudioTooLarge
	}

	var info *util.AudioInfo
	if s.Media.ProbeAudio && s.probe != nil {
		info, err = s.probe(tmp.Name())
		if err != nil {
			return nil, err
		}
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	objectName := "audio/" + uuid.NewString() + util.AudioExtension(filename)
	if s.Provider.Name() == util.StorageBackend {
		// 后端自行命名，保留原文件名便于识别
		objectName = filepath.Base(filename)
	}
	url, err := s.Provider.Upload(ctx, objectName, tmp, written, contentType)
	if err != nil {
		return nil, err
	}

	logger.L().Info("audio uploaded",
		zap.String("provider", s.Provider.Name()),
		zap.String("filename", filename),
		zap.Int64("size", written),
	)
	return &AudioUpload{
		URL:         url,
		Filename:    filepath.Base(filename),
		ContentType: contentType,
		Size:        written,
		Provider:    s.Provider.Name(),
		Info:        info,
	}, nil
}
