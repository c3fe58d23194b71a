// Package database manages the PostgreSQL connection pool.
package database

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ergy12/inspection-du-travail/internal/config"
)

// Service exposes the connection pool to handlers and reports health.
type Service interface {
	GetPool() *pgxpool.Pool
	Health() map[string]string
	Close()
}

type service struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL and pings it. Fails fast on a bad DSN —
// a service that cannot reach its database should not start.
func New(cfg *config.DBConfig) Service {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.URL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	log.Println("Connected to PostgreSQL")
	return &service{pool: pool}
}

func (s *service) GetPool() *pgxpool.Pool {
	return s.pool
}

// Health pings the database and returns a status map for the health endpoint.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.pool.Ping(ctx); err != nil {
		return map[string]string{
			"status":  "down",
			"message": err.Error(),
		}
	}

	stat := s.pool.Stat()
	return map[string]string{
		"status":      "up",
		"connections": strconv.Itoa(int(stat.TotalConns())),
	}
}

func (s *service) Close() {
	s.pool.Close()
}
