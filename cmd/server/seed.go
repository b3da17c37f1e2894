package main

import (
	"letsprint/internal/database"
	"letsprint/internal/provision"
	"letsprint/pkg/config"
)

// seedData 初始化种子数据
func seedData(cfg *config.Config) error {
	return provision.Run(database.GetDB(), cfg.Seed.AdminEmail, cfg.Seed.AdminPassword)
}
