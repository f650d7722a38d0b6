package cache

import "errors"

var (
	// ErrBackend возвращается при ошибке обращения к хранилищу кэша
	ErrBackend = errors.New("cache: backend error")

	// ErrEncode возвращается, если запись не удалось (де)сериализовать
	ErrEncode = errors.New("cache: failed to encode entry")
)
