package character

import (
	"errors"
	"fmt"
)

var (
	// ErrFileMissing 表示数据文件不存在
	ErrFileMissing = errors.New("数据文件不存在")

	// ErrMalformedJSON 表示数据文件不是合法的JSON
	ErrMalformedJSON = errors.New("JSON解析失败")

	// ErrWriteOutput 表示输出文件写入失败
	ErrWriteOutput = errors.New("无法写入输出文件")
)

// RecordError 描述单条角色记录处理失败的原因，失败的记录会被跳过
type RecordError struct {
	ResourceID int64
	Err        error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("处理角色 %d 失败: %v", e.ResourceID, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
