// Package config loads typed configuration structs from the environment.
//
// Every package that needs settings declares its own Config struct with
// github.com/caarlos0/env tags (redis.Config, mongo.Config, session.Config,
// queue.Config and so on). The process entry point loads them with Load or
// MustLoad; a .env file is honoured through github.com/joho/godotenv.
//
//	var redisCfg redis.Config
//	config.MustLoad(&redisCfg)
//
// Parsed values are cached per type, so repeated loads are cheap and return
// the same snapshot.
package config
