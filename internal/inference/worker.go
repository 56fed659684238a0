package inference

import (
	"context"
	"math/rand/v2"

	"github.com/specialistvlad/elevendx/internal/cpt"
)

// accumulator holds the weighted state counts of one worker. counts is flat,
// offsets[i] is where node i's states start.
type accumulator struct {
	total  float64
	counts []float64
}

func (a *accumulator) add(o *accumulator) {
	a.total += o.total
	for i, c := range o.counts {
		a.counts[i] += c
	}
}

type worker struct {
	store    *cpt.Store
	order    []int
	observed []int
	offsets  []int
	rng      *rand.Rand
	acc      accumulator
}

func newWorker(store *cpt.Store, observed, offsets []int, width int, rng *rand.Rand) *worker {
	return &worker{
		store:    store,
		order:    store.Graph().Order(),
		observed: observed,
		offsets:  offsets,
		rng:      rng,
		acc:      accumulator{counts: make([]float64, width)},
	}
}

func (w *worker) run(ctx context.Context, trials int) error {
	assignment := make([]int, len(w.observed))
	for t := 0; t < trials; t++ {
		if t%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if weight := w.trial(assignment); weight > 0 {
			w.acc.total += weight
			for i, s := range assignment {
				w.acc.counts[w.offsets[i]+s] += weight
			}
		}
	}
	return nil
}

// trial fills assignment and returns the trial weight. A zero weight may
// leave assignment partially filled.
func (w *worker) trial(assignment []int) float64 {
	weight := 1.0
	for _, i := range w.order {
		row := w.store.RowFor(i, assignment)
		if obs := w.observed[i]; obs >= 0 {
			assignment[i] = obs
			weight *= row[obs]
			if weight == 0 {
				return 0
			}
			continue
		}
		assignment[i] = draw(row, w.rng.Float64())
	}
	return weight
}

// draw picks a state from row using the uniform variate u.
func draw(row []float64, u float64) int {
	acc := 0.0
	last := 0
	for i, p := range row {
		if p == 0 {
			continue
		}
		acc += p
		last = i
		if u < acc {
			return i
		}
	}
	return last
}
