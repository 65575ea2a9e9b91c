package catalog

import "errors"

var (
	// ErrCacheMiss возвращается внутренним getCached при отсутствии ключа
	ErrCacheMiss = errors.New("catalog.cache: cache miss")

	// ErrEncode возвращается при ошибке сериализации значения для кеша
	ErrEncode = errors.New("catalog.cache: failed to encode value")
)
