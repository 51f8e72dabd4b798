package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"os"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_booking/internal/adapters/observability"
	redisad "hotel_booking/internal/adapters/redis"
	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/shared"
	mongorepo "hotel_booking/internal/storage/mongo"
	"hotel_booking/internal/validation"
)

// record is one hotel in the seed file. Image is an existing reference.
type record struct {
	Name         string  `json:"hotel_name"`
	Description  string  `json:"hotel_description"`
	Image        string  `json:"image"`
	StarRating   float64 `json:"star_rating"`
	Country      string  `json:"country"`
	CostPerNight float64 `json:"cost_per_night"`
	Available    bool    `json:"available"`
}

type creator interface {
	Create(ctx context.Context, h domain.Hotel, img *domain.ImageFile) (domain.Hotel, error)
}

func main() {
	file := flag.String("file", "hotels.json", "JSON array of hotels to load")
	flag.Parse()

	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "seeder")
	log.Info().Str("file", *file).Int("workers", cfg.SeedWorkers).Msg("seeder starting")

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("open seed file failed")
	}
	records, err := decode(f)
	f.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("decode seed file failed")
	}

	client, err := mongorepo.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	store := mongorepo.New(client.Database(cfg.MongoDB))
	if err := store.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensure indexes failed")
	}

	cache := redisad.New(redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB), "cache:")
	svc := app.NewHotelService(store, nil, cache)

	ok, failed := seed(ctx, svc, records, cfg.SeedWorkers)
	log.Info().Int64("ok", ok).Int64("failed", failed).Msg("seeding completed")
	if failed > 0 {
		os.Exit(1)
	}
}

func decode(r io.Reader) ([]record, error) {
	var out []record
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// toHotel runs a record through the same rules and sanitizer as the admin form.
func toHotel(rec record) (domain.Hotel, error) {
	f := validation.Form{
		validation.HotelName:        rec.Name,
		validation.HotelDescription: rec.Description,
		validation.StarRating:       strconv.FormatFloat(rec.StarRating, 'f', -1, 64),
		validation.Country:          rec.Country,
		validation.CostPerNight:     strconv.FormatFloat(rec.CostPerNight, 'f', -1, 64),
		validation.Available:        strconv.FormatBool(rec.Available),
	}
	if errs := validation.Run(f, validation.HotelRules...); len(errs) > 0 {
		return domain.Hotel{}, errs
	}
	h, err := validation.HotelFromForm(validation.Sanitize(f))
	if err != nil {
		return domain.Hotel{}, err
	}
	h.Image = rec.Image
	return h, nil
}

// seed creates hotels with at most workers in flight.
func seed(ctx context.Context, svc creator, records []record, workers int) (ok, failed int64) {
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup

	for i, rec := range records {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Error().Err(err).Msg("semaphore acquire failed")
			atomic.AddInt64(&failed, int64(len(records)-i))
			break
		}

		wg.Add(1)
		go func(i int, rec record) {
			defer wg.Done()
			defer sem.Release(1)

			h, err := toHotel(rec)
			if err == nil {
				h, err = svc.Create(ctx, h, nil)
			}
			if err != nil {
				atomic.AddInt64(&failed, 1)
				log.Warn().Int("index", i).Str("name", rec.Name).Err(err).Msg("seed failed")
				return
			}
			atomic.AddInt64(&ok, 1)
			log.Info().Str("id", h.ID).Str("name", h.Name).Msgf("seeded %d/%d", i+1, len(records))
		}(i, rec)
	}

	wg.Wait()
	return ok, failed
}
