// Чтение переменных окружения.
package config

import (
	"net/url"
	"os"
	"strconv"
)

// Exist - возвращает true, если глобальная переменная key существует, иначе false
func Exist(key string) bool {
	_, exist := os.LookupEnv(key)
	return exist
}

// GetEnv - возвращает содержимое глобальной строковой переменной.
func GetEnv(key string) string {
	val, _ := os.LookupEnv(key)
	return val
}

// GetIntEnv - возвращает содержимое глобальной числовой переменной. Если возникла ошибка при обработке, возвращается 0
func GetIntEnv(key string) int {
	v, err := strconv.Atoi(GetEnv(key))
	if err != nil {
		return 0
	}
	return v
}

// GetBoolEnv - возвращает содержимое глобальной логической переменной. Если возникла ошибка при обработке, возвращается false
func GetBoolEnv(key string) bool {
	v, err := strconv.ParseBool(GetEnv(key))
	if err != nil {
		return false
	}
	return v
}

// GetURLEnv - возвращает разобранный URL из глобальной переменной. Если URL некорректный или без хоста, возвращается nil
func GetURLEnv(key string) *url.URL {
	u, err := url.Parse(GetEnv(key))
	if err != nil || u.Host == "" {
		return nil
	}
	return u
}
