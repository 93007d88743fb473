package config

import (
	"DuoPlay/services/redis"
	"log"
)

// Connect to Redis
func Connect_redis(redisUri string) (*redis.RedisClient, error) {
	redisClient, err := redis.InitRedis(redisUri, 0)
	if err != nil {
		log.Printf("Error connecting to Redis: %v", err)
		return nil, err
	}
	log.Println("Redis connection established")
	return redisClient, nil
}
