// @title 英语学习平台管理控制台 API
// @version 1.0
// @description 考试、课程、游戏与分级测试内容的管理控制台，代理平台后端。

// @host localhost:8090
// @BasePath /

package main

import (
	"context"
	"english_admin/internal/app"
	"english_admin/internal/config"
	"english_admin/pkg/logger"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"
)

func main() {
	// 命令行参数
	configDir := flag.String("config", "configs", "配置文件所在目录")
	loginEmail := flag.String("login", "", "启动前以该邮箱登录，密码从终端读取")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.LoginEmail = *loginEmail

	application := app.NewApp(cfg)
	application.ConfigPath = *configDir
	defer logger.Log.Sync()

	if cfg.LoginEmail != "" {
		if err := interactiveLogin(application, cfg.LoginEmail); err != nil {
			logger.Log.Fatal("Login failed", zap.Error(err))
		}
	}

	application.Run()
}

func interactiveLogin(application *app.App, email string) error {
	fmt.Fprintf(os.Stderr, "Password for %s: ", email)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return application.Login(ctx, email, string(password))
}
