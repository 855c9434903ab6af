package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-rod/rod/lib/launcher"
)

func main() {
	fmt.Println("==============================================")
	fmt.Println("  docsnap 环境验证")
	fmt.Println("==============================================")
	fmt.Println()

	allOK := true

	fmt.Printf("✅ Go版本: %s\n", runtime.Version())
	fmt.Printf("✅ 操作系统: %s/%s\n", runtime.GOOS, runtime.GOARCH)

	// PDF渲染需要Chrome/Chromium
	if bin, found := launcher.LookPath(); found {
		fmt.Printf("✅ 浏览器: %s\n", bin)
	} else {
		fmt.Println("⚠️  未找到Chrome/Chromium - 首次渲染时go-rod会自动下载")
		fmt.Println("   或在 configs/config.yaml 中设置 render.bin")
	}

	fmt.Println()
	fmt.Println("检查目录权限...")
	for _, dir := range []string{"output", "logs"} {
		if err := checkWritable(dir); err != nil {
			fmt.Printf("❌ %s/ 不可写: %v\n", dir, err)
			allOK = false
		} else {
			fmt.Printf("✅ %s/\n", dir)
		}
	}

	fmt.Println()
	fmt.Println("检查配置文件...")
	for _, path := range []string{"configs/config.yaml", "configs/headers.yaml"} {
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("✅ %s\n", path)
		} else {
			fmt.Printf("⚠️  %s 不存在, 将使用默认值\n", path)
		}
	}

	fmt.Println()
	fmt.Println("==============================================")
	if allOK {
		fmt.Println("✅ 环境验证通过!")
		fmt.Println()
		fmt.Println("下一步:")
		fmt.Println("  1. 运行 'go build -o docsnap ./cmd/docsnap' 构建项目")
		fmt.Println("  2. 运行 './docsnap headers --init' 生成头部配置模板")
		fmt.Println("  3. 运行 './docsnap <seed-url>' 开始归档")
		os.Exit(0)
	}
	fmt.Println("❌ 环境验证失败,请解决上述问题。")
	os.Exit(1)
}

// checkWritable 创建目录并尝试写入临时文件
func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".verify-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(filepath.Clean(name))
}
