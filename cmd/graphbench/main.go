package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/d60-Lab/friend-graph/config"
	"github.com/d60-Lab/friend-graph/internal/cache"
	"github.com/d60-Lab/friend-graph/internal/repository"
	"github.com/d60-Lab/friend-graph/internal/service"
	"github.com/d60-Lab/friend-graph/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

var hobbyPool = []string{"reading", "gaming", "cooking", "music", "travel", "photography", "sports", "art", "chess", "hiking"}

// pct returns the p-quantile of vs.
func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	ctx := context.Background()
	rdb := must(database.InitRedis(ctx, cfg))

	userRepo := cache.NewUserCache(repository.NewUserRepository(db), rdb, cfg.Redis.TTL)
	svc := service.NewUserService(userRepo, repository.NewFriendshipRepository(db))

	N := envInt("N", 500)
	DEGREE := envInt("DEGREE", 10)
	READS := envInt("READS", 200)
	rng := rand.New(rand.NewSource(int64(envInt("SEED", 42))))

	// seed users with 1-4 random hobbies each
	ids := make([]string, 0, N)
	run := time.Now().UnixNano()
	t0 := time.Now()
	for i := 0; i < N; i++ {
		hobbies := make([]string, 1+rng.Intn(4))
		for j := range hobbies {
			hobbies[j] = hobbyPool[rng.Intn(len(hobbyPool))]
		}
		age := 18 + rng.Intn(50)
		u := must(svc.CreateUser(ctx, service.CreateUserInput{
			Username: fmt.Sprintf("bench-%d-%d", run, i),
			Age:      &age,
			Hobbies:  hobbies,
		}))
		ids = append(ids, u.ID)
	}
	seedUsers := time.Since(t0)

	// random friendships; duplicates and self pairs are rejected by the service
	t1 := time.Now()
	created, rejected := 0, 0
	for i := 0; i < N*DEGREE/2; i++ {
		a, b := ids[rng.Intn(len(ids))], ids[rng.Intn(len(ids))]
		if err := svc.CreateFriendship(ctx, a, b); err != nil {
			rejected++
			continue
		}
		created++
	}
	seedLinks := time.Since(t1)

	popRecs := make([]time.Duration, 0, READS)
	for i := 0; i < READS; i++ {
		st := time.Now()
		_, _ = svc.ComputePopularity(ctx, ids[rng.Intn(len(ids))])
		popRecs = append(popRecs, time.Since(st))
	}

	graphRecs := make([]time.Duration, 0, 10)
	edges := 0
	for i := 0; i < 10; i++ {
		st := time.Now()
		g := must(svc.Graph(ctx))
		graphRecs = append(graphRecs, time.Since(st))
		edges = len(g.Edges)
	}

	fmt.Printf("N=%d, DEGREE=%d, READS=%d, driver=%s, cache=%v\n", N, DEGREE, READS, cfg.Database.Driver, rdb != nil)
	fmt.Printf("Seed users: %v (%v per op)\n", seedUsers, seedUsers/time.Duration(N))
	fmt.Printf("Seed friendships: %v, created=%d, rejected=%d\n", seedLinks, created, rejected)
	fmt.Printf("Popularity latency p50: %v, p95: %v, p99: %v\n", pct(popRecs, 0.50), pct(popRecs, 0.95), pct(popRecs, 0.99))
	fmt.Printf("Graph projection (%d edges) p50: %v, max: %v\n", edges, pct(graphRecs, 0.50), pct(graphRecs, 1))
	if uc, ok := userRepo.(*cache.UserCache); ok {
		hits, misses := uc.Stats()
		fmt.Printf("User cache hits=%d misses=%d\n", hits, misses)
	}
}
