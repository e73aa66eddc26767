// fitstatus 是集成采样拟合过程的终端诊断前端：原地刷新的状态块、相关性热力图、依赖树和交互提问。
package main

import (
	"fitstatus/cmd"
)

// main 是程序的入口函数，负责启动 CLI 命令执行。
func main() {
	cmd.Execute()
}
