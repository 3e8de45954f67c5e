package config

import "time"

type StorageConfig struct {
	Provider    string            `yaml:"provider"`
	PresignTTL  time.Duration     `yaml:"presign_ttl"`
	MaxFileSize int64             `yaml:"max_file_size"`
	AWS         *AWSStorageConfig `yaml:"aws"`
	GCP         *GCPStorageConfig `yaml:"gcp"`
}

type AWSStorageConfig struct {
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	CDNDomain string `yaml:"cdn_domain"`
}

type GCPStorageConfig struct {
	Bucket          string `yaml:"bucket"`
	CredentialsFile string `yaml:"credentials_file"`
	CDNDomain       string `yaml:"cdn_domain"`
}

func loadStorageConfig() *StorageConfig {
	return &StorageConfig{
		Provider:    getEnv("STORAGE_PROVIDER", "s3"),
		PresignTTL:  getEnvAsDuration("STORAGE_PRESIGN_TTL", 15*time.Minute),
		MaxFileSize: int64(getEnvAsInt("STORAGE_MAX_FILE_SIZE", 10*1024*1024)),
		AWS: &AWSStorageConfig{
			Region:    getEnv("AWS_S3_REGION", "ap-south-1"),
			Bucket:    getEnv("AWS_S3_BUCKET", ""),
			CDNDomain: getEnv("AWS_CLOUDFRONT_DOMAIN", ""),
		},
		GCP: &GCPStorageConfig{
			Bucket:          getEnv("GCP_STORAGE_BUCKET", ""),
			CredentialsFile: getEnv("GCP_CREDENTIALS_FILE", ""),
			CDNDomain:       getEnv("GCP_CDN_DOMAIN", ""),
		},
	}
}
