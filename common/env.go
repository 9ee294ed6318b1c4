package common

import (
  "os"
  "strconv"
  "strings"
)

func GetEnvString(key string) string {
  return os.Getenv(key)
}

func GetEnvInt(key string) int {
  value, _ := strconv.Atoi(os.Getenv(key))
  return value
}

func GetEnvBool(key string) bool {
  value, _ := strconv.ParseBool(os.Getenv(key))
  return value
}

func GetEnvArray(key string) []string {
  value := os.Getenv(key)
  if value == "" {
    return []string{}
  }
  var items []string
  for _, item := range strings.Split(value, ";") {
    item = strings.TrimSpace(item)
    if item != "" {
      items = append(items, item)
    }
  }
  return items
}
