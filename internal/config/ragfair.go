package config

import "time"

type Ragfair struct {
	GameDataDir string `env:"GAME_DATA_DIR,notEmpty" envDefault:"./data"`
	TuningPath  string `env:"RAGFAIR_TUNING_PATH" envDefault:"./configs/ragfair.yaml"`
	ArchiveDir  string `env:"RAGFAIR_ARCHIVE_DIR"`
	// LivePriceTTL - сколько живёт цена, полученная из Redis.
	LivePriceTTL time.Duration `env:"RAGFAIR_LIVE_PRICE_TTL" envDefault:"10m"`
	// Seed фиксирует генератор случайных чисел; 0 - сид от времени.
	Seed uint64 `env:"RAGFAIR_SEED" envDefault:"0"`
}
