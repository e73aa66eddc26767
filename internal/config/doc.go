// Package config 提供 fitstatus 的配置管理功能。
//
// 配置文件存储在 ~/.config/fitstatus/config.yaml，使用 YAML 格式。
// 支持的配置项包括折行宽度、输出语言、静默模式、输出字符集和翻译后端。
package config
