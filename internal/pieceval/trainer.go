package pieceval

import (
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

const batchSize = 16384

type TrainConfig struct {
	Epochs      int
	Concurrency int
	Seed        int64
	Logger      zerolog.Logger
}

// Train fits the model by mini batch gradient descent. With Concurrency 1
// and a fixed seed the fit is deterministic for a given dataset.
func Train(dataset *Dataset, cfg TrainConfig) (*Model, error) {
	if len(dataset.Samples) == 0 {
		return nil, fmt.Errorf("no samples: corpus has no decisive, materially stable positions")
	}
	cfg.Logger.Info().
		Int("samples", len(dataset.Samples)).
		Int("features", len(dataset.Pieces)).
		Msg("train started")

	var validationSize = min(100_000, len(dataset.Samples)/5)
	var validation = dataset.Samples[:validationSize]
	var training = dataset.Samples[validationSize:]

	var mainModel = NewModel(len(dataset.Pieces))
	var models = make([]*Model, max(1, cfg.Concurrency))
	models[0] = mainModel
	for i := 1; i < len(models); i++ {
		models[i] = mainModel.ThreadCopy()
	}

	var rnd = rand.New(rand.NewSource(cfg.Seed))
	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		shuffle(rnd, training)
		for i := 0; i < len(training); i += batchSize {
			var batch = training[i:min(i+batchSize, len(training))]
			trainBatch(batch, models)
			applyGradients(models)
		}
		if len(validation) != 0 {
			cfg.Logger.Debug().
				Int("epoch", epoch).
				Float64("validationCost", calcAverageCost(validation, models)).
				Msg("epoch finished")
		}
	}

	cfg.Logger.Info().Msg("train finished")
	return mainModel, nil
}

func shuffle(rnd *rand.Rand, training []Sample) {
	rnd.Shuffle(len(training), func(i, j int) {
		training[i], training[j] = training[j], training[i]
	})
}

func trainBatch(samples []Sample, models []*Model) {
	var index int32 = -1
	var wg = &sync.WaitGroup{}
	for i := range models {
		wg.Add(1)
		go func(m *Model) {
			defer wg.Done()
			for {
				var i = int(atomic.AddInt32(&index, 1))
				if i >= len(samples) {
					break
				}
				m.Train(&samples[i])
			}
		}(models[i])
	}
	wg.Wait()
}

func applyGradients(models []*Model) {
	for i := 1; i < len(models); i++ {
		models[i].AddGradients(models[0])
	}
	models[0].ApplyGradients()
}

func calcAverageCost(samples []Sample, models []*Model) float64 {
	var index int32 = -1
	var wg = &sync.WaitGroup{}
	var totalCost float64
	var mu = &sync.Mutex{}
	for i := range models {
		wg.Add(1)
		go func(m *Model) {
			defer wg.Done()
			var localCost float64
			for {
				var i = int(atomic.AddInt32(&index, 1))
				if i >= len(samples) {
					break
				}
				localCost += m.CalcCost(&samples[i])
			}
			mu.Lock()
			totalCost += localCost
			mu.Unlock()
		}(models[i])
	}
	wg.Wait()
	return totalCost / float64(len(samples))
}
