package core

import (
	"errors"
	"fmt"
)

// DomainError 是领域层的统一错误类型。
//
// 分类：
//   - 输入错误（INVALID_RANK / INVALID_COUNT / UNKNOWN_COLUMN / INVALID_INPUT）：
//     用户可修正，作为查询的终态原样返回，不附带部分结果
//   - 行级打分错误（UNSEEN_LABEL / ENCODING_FAILURE / PREDICTION_FAILURE）：
//     只影响单行的 AdmissionChance，不会中断查询
//   - 其他（NOT_FOUND / UNAVAILABLE / INTERNAL_ERROR）：基础设施层错误
type DomainError struct {
	Code    string // 错误代码（如 "INVALID_RANK", "UNKNOWN_COLUMN"）
	Message string // 错误消息，面向用户，需要点明出错的字段/值
	Module  string // 模块名称（如 "query", "resolver", "feature", "model"）
	Field   string // 出错的输入字段（可选）
	Err     error  // 底层原因（可选）
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// IsDomainError 检查错误链上是否存在 DomainError
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 获取错误链上的第一个 DomainError，如果不存在则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// NewFieldError 创建一个指向具体输入字段的领域错误
func NewFieldError(module, code, field, format string, args ...any) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapDomainError 用领域错误包装底层原因
func WrapDomainError(module, code string, err error, format string, args ...any) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// 错误代码常量
const (
	// 通用错误代码
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 服务不可用
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误

	// 输入错误
	ErrorCodeInvalidRank   = "INVALID_RANK"   // rank 不是正整数
	ErrorCodeInvalidCount  = "INVALID_COUNT"  // max_results 不是正整数
	ErrorCodeUnknownColumn = "UNKNOWN_COLUMN" // category/gender 组合无法映射到表中的列

	// 行级打分错误
	ErrorCodeUnseenLabel       = "UNSEEN_LABEL"       // 编码器词表中没有该标签
	ErrorCodeEncodingFailure   = "ENCODING_FAILURE"   // 特征向量构建失败
	ErrorCodePredictionFailure = "PREDICTION_FAILURE" // 分类器调用失败或输出不合法
)

// 模块名称常量
const (
	ModuleQuery    = "query"    // 输入解析
	ModuleResolver = "resolver" // 列解析
	ModuleTable    = "table"    // 数据表
	ModuleStore    = "store"    // 存储模块
	ModuleFeature  = "feature"  // 特征编码
	ModuleModel    = "model"    // 分类器
	ModulePipeline = "pipeline" // 流水线
)

// hasCode 沿错误链检查是否存在指定代码的 DomainError（包括被包装的底层原因）
func hasCode(err error, codes ...string) bool {
	for domainErr := GetDomainError(err); domainErr != nil; domainErr = GetDomainError(domainErr.Err) {
		for _, c := range codes {
			if domainErr.Code == c {
				return true
			}
		}
	}
	return false
}

// IsInputError 检查错误是否为用户可修正的输入错误
func IsInputError(err error) bool {
	return hasCode(err, ErrorCodeInvalidRank, ErrorCodeInvalidCount, ErrorCodeUnknownColumn, ErrorCodeInvalidInput)
}

// IsRowError 检查错误是否为行级打分错误
func IsRowError(err error) bool {
	return hasCode(err, ErrorCodeUnseenLabel, ErrorCodeEncodingFailure, ErrorCodePredictionFailure)
}

// IsUnseenLabel 检查错误是否为 UNSEEN_LABEL
func IsUnseenLabel(err error) bool {
	return hasCode(err, ErrorCodeUnseenLabel)
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	return hasCode(err, ErrorCodeNotFound)
}

// IsUnavailable 检查错误是否为 UNAVAILABLE
func IsUnavailable(err error) bool {
	return hasCode(err, ErrorCodeUnavailable)
}
