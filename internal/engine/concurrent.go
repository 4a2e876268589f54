package engine

// concurrent.go — worker pool para la detección paralela por mercado.
//
// La detección de cada mercado es independiente (sin escrituras
// compartidas), así que el pool puede usar cuantos workers haya
// disponibles. La correlación entre mercados espera a que el pool
// termine: es la barrera de sincronización del pipeline.

import (
	"runtime"
	"sync"

	"github.com/alejandrodnm/trapmap/internal/detect"
	"github.com/alejandrodnm/trapmap/internal/domain"
)

// detectConcurrent ejecuta el pipeline de detectores sobre cada mercado en
// paralelo y devuelve las señales por nombre de mercado. El orden de
// ejecución entre mercados es irrelevante: el resultado es un map.
//
// Si workers <= 0 usa runtime.NumCPU().
func detectConcurrent(detectors []detect.Detector, inputs []detect.Input, workers int) map[string][]domain.Signal {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(inputs) {
		workers = len(inputs)
	}

	type result struct {
		market  string
		signals []domain.Signal
	}

	workCh := make(chan detect.Input, len(inputs))
	resultCh := make(chan result, len(inputs))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for in := range workCh {
				resultCh <- result{
					market:  in.Market.Name,
					signals: detect.Run(detectors, in),
				}
			}
		}()
	}

	for _, in := range inputs {
		workCh <- in
	}
	close(workCh)

	wg.Wait()
	close(resultCh)

	signals := make(map[string][]domain.Signal, len(inputs))
	for r := range resultCh {
		signals[r.market] = r.signals
	}
	return signals
}
