package identity

import (
	"strconv"

	"github.com/luacheia/storefront/internal/logger"
	"github.com/luacheia/storefront/internal/storage"

	"github.com/golang-jwt/jwt/v5"
)

// Identity 当前请求者身份。Guest 为 true 时 UserID 无意义，
// 调用方必须显式处理访客分支，而不是依赖空值
type Identity struct {
	UserID uint
	Guest  bool
}

// GuestIdentity 访客身份
func GuestIdentity() Identity {
	return Identity{Guest: true}
}

// UserIdentity 已登录身份
func UserIdentity(userID uint) Identity {
	return Identity{UserID: userID}
}

// FormUserID 购物车表单里的 user_id 字段值，访客固定提交 0
func (i Identity) FormUserID() string {
	if i.Guest {
		return "0"
	}
	return strconv.FormatUint(uint64(i.UserID), 10)
}

// userClaims 访问令牌负载中关心的声明
type userClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// Resolve 从本地令牌解析用户身份。令牌缺失、损坏或不含 user_id
// 一律降级为访客：对调用方而言"解析失败"不是错误，只是未登录。
// 客户端只做结构性解码，不校验签名
func Resolve(store *storage.Store) Identity {
	token, ok, err := store.Get(storage.KeyAccessToken)
	if err != nil {
		logger.Warnw("access_token_read_failed", "error", err)
		return GuestIdentity()
	}
	if !ok || token == "" {
		return GuestIdentity()
	}

	claims := &userClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		logger.Warnw("access_token_decode_failed", "error", err)
		return GuestIdentity()
	}
	if claims.UserID == 0 {
		logger.Warnw("access_token_missing_user_id")
		return GuestIdentity()
	}
	return UserIdentity(claims.UserID)
}
