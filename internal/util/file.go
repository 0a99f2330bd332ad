package util

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DetectAudio 读取文件头识别 MIME 类型，返回可重新读取完整内容的 reader
func DetectAudio(reader io.Reader) (string, io.Reader, error) {
	header := make([]byte, 3072)
	n, err := io.ReadFull(reader, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", nil, err
	}
	header = header[:n]

	mtype := mimetype.Detect(header)
	full := io.MultiReader(bytes.NewReader(header), reader)

	for m := mtype; m != nil; m = m.Parent() {
		if IsAudio(m.String()) {
			return mtype.String(), full, nil
		}
	}
	return mtype.String(), full, ErrInvalidAudio
}

// IsAudio 检测是否为音频
func IsAudio(mimeType string) bool {
	return strings.HasPrefix(mimeType, MimeAudio)
}

// AudioExtension 返回文件扩展名，未知时默认 .mp3
func AudioExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range AllowedAudioExtensions {
		if ext == allowed {
			return ext
		}
	}
	return ".mp3"
}
