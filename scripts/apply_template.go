// 手动应用分级测试题目模板
//
// 控制台页面里也可以应用模板；此脚本用于首次部署时批量初始化题库。
// 需要先通过控制台或 `-login` 登录，脚本复用同一份会话存储。
//
// 用法: go run scripts/apply_template.go -template basic

package main

import (
	"context"
	"english_admin/internal/api"
	"english_admin/internal/config"
	"english_admin/internal/session"
	"english_admin/pkg/database"
	"english_admin/pkg/logger"
	"flag"
	"log"
	"time"
)

func main() {
	configDir := flag.String("config", "configs", "配置文件所在目录")
	template := flag.String("template", "basic", "模板名: basic | ielts | toeic")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}
	logger.InitLogger(cfg)

	var kv session.KV
	switch cfg.Session.Store {
	case "redis":
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			log.Fatalf("Redis 连接失败: %v", err)
		}
		kv = session.NewRedisKV(rdb, cfg.Session.KeyPrefix)
	case "database":
		db, err := database.InitDB(&cfg.Database)
		if err != nil {
			log.Fatalf("数据库连接失败: %v", err)
		}
		kv = session.NewDBKV(db, cfg.Session.KeyPrefix)
	default:
		if kv, err = session.NewFileKV(cfg.Session.FilePath); err != nil {
			log.Fatalf("会话文件不可用: %v", err)
		}
	}

	client, err := api.NewClient(cfg.API)
	if err != nil {
		log.Fatalf("创建 API 客户端失败: %v", err)
	}
	store := session.NewStore(kv, client)
	client.Bind(store, store.Expire)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := store.Init(ctx); err != nil || !store.Authenticated() {
		log.Fatalf("未登录，请先登录控制台")
	}

	log.Printf("应用模板 %s ...", *template)
	if err := client.ApplyTemplate(ctx, *template); err != nil {
		log.Fatalf("应用失败: %s", api.Describe(err))
	}
	log.Println("完成！")
}
