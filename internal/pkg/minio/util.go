package minio

import (
	"Nexus/internal/api/config"
	"fmt"
	"strings"
)

// GetPublicURL 获取文件的公共访问URL。
// 已经是完整 URL 的对象名原样返回。
func GetPublicURL(objectName string) string {
	if objectName == "" {
		return ""
	}
	if strings.HasPrefix(objectName, "http://") || strings.HasPrefix(objectName, "https://") {
		return objectName
	}

	cfg := config.Cfg.MinIO

	protocol := "http"
	if cfg.UseSSL {
		protocol = "https"
	}

	return fmt.Sprintf("%s://%s/%s/%s", protocol, cfg.Endpoint, MainBucket, objectName)
}
