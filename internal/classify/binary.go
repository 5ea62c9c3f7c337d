package classify

import (
	"bytes"
	"io"
	"os"
)

// BinarySniffLength 是判断二进制文件时检查的前缀字节数。
const BinarySniffLength = 1024

// LooksBinary 判断内容前 BinarySniffLength 字节中是否包含空字节。
func LooksBinary(content []byte) bool {
	if len(content) > BinarySniffLength {
		content = content[:BinarySniffLength]
	}
	return bytes.IndexByte(content, 0) >= 0
}

// IsBinary 读取文件开头判断是否为二进制；无法读取的文件同样视为二进制。
func IsBinary(target string) bool {
	file, err := os.Open(target)
	if err != nil {
		return true
	}
	defer func() {
		_ = file.Close()
	}()

	head := make([]byte, BinarySniffLength)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return true
	}
	return LooksBinary(head[:n])
}
