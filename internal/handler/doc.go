// Package handler 按调用方划分的 HTTP Handler：hotel 为客人端，admin 为前台，payment 为网关回调。
//
// 接口文档由 swag 从子包注解生成到 docs 包：
//
//	swag init -g cmd/api-gateway/main.go --dir ./,./internal/handler -o docs
package handler
