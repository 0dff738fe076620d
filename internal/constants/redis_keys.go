package constants

import "time"

// Redis Key 前缀和格式常量
// 统一命名规范: genjob:{entity}:{unique_id}
const (
	// AppPrefix 所有Redis Key的应用前缀
	AppPrefix = "genjob"

	// EntityCompany 公司实体
	EntityCompany = "company"

	// KeyCompany 公司信息缓存 (STRING, JSON编码)
	// 格式: genjob:company:{normalized_name}
	KeyCompany = AppPrefix + ":" + EntityCompany + ":%s"

	// CompanyCacheDuration 公司缓存过期时间
	CompanyCacheDuration = 24 * time.Hour
)
