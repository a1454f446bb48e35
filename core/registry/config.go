package registry

import (
	"github.com/google/uuid"
	"github.com/nyan233/littlescope/core/common/logger"
	perror "github.com/nyan233/littlescope/core/protocol/error"
)

// DefaultNamespace 生成类型身份标识时使用的命名空间
// 类型的身份标识是该命名空间下以类型全名生成的v5 UUID, 对同一个类型总是相同
var DefaultNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/nyan233/littlescope"))

type Config struct {
	Logger     logger.LLogger
	ErrHandler perror.LErrors
	Namespace  uuid.UUID
}
