package orm

import (
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

var (
	// ErrPoolNotInitialized 连接池未初始化或已关闭
	ErrPoolNotInitialized = errors.New("connection pool is not initialized")
	// ErrUnexpectedRowCount 写操作影响行数不是 1
	ErrUnexpectedRowCount = errors.New("unexpected affected row count")
)

// SchemaError 模型声明错误，注册阶段即失败，类型不可用
type SchemaError struct {
	Type   string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error for %s: %s", e.Type, e.Reason)
}

// PoolInitError 连接池初始化失败，如地址不可达、认证失败
type PoolInitError struct {
	Driver string
	Addr   string
	Err    error
}

func (e *PoolInitError) Error() string {
	return fmt.Sprintf("init %s pool [%s] failed: %v", e.Driver, e.Addr, e.Err)
}

func (e *PoolInitError) Unwrap() error { return e.Err }

func (e *PoolInitError) Cause() error { return e.Err }

// QueryError 包装驱动返回的错误，原样向上抛出，不做重试
type QueryError struct {
	SQL  string
	Args []any
	Err  error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query [%s] failed: %v", e.SQL, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

func (e *QueryError) Cause() error { return e.Err }

// InvalidArgumentError 调用参数不合法
type InvalidArgumentError struct {
	Name   string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Name, e.Reason)
}

// RowCountError 写操作影响行数与预期不一致
type RowCountError struct {
	Table  string
	Op     string
	Result WriteResult
}

func (e *RowCountError) Error() string {
	return fmt.Sprintf("%s %s: affected rows %d, expected 1", e.Op, e.Table, e.Result.RowsAffected)
}

func (e *RowCountError) Is(target error) bool {
	return target == ErrUnexpectedRowCount
}

// MySQL 服务端错误码
const (
	ErrCodeAccessDenied    = 1045
	ErrCodeUnknownDatabase = 1049
	ErrCodeUnknownTable    = 1146
	ErrCodeDuplicateEntry  = 1062
)

// ErrorCode 返回 MySQL 服务端错误码，非 MySQL 错误返回 0
func ErrorCode(err error) uint16 {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number
	}
	return 0
}

// IsDuplicateKey 是否主键或唯一索引冲突
func IsDuplicateKey(err error) bool {
	if ErrorCode(err) == ErrCodeDuplicateEntry {
		return true
	}
	// sqlite 用于本地开发和测试
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
