package pieceval

import (
	"github.com/ianfab/chess-variant-stats/internal/ml"
)

// Model is a single linear layer with a sigmoid activation: logistic
// regression over the sparse piece diff features, plus an intercept in the
// last weight column.
type Model struct {
	activationFn ml.IActivationFn
	weights      ml.Matrix
	wGradients   ml.Gradients
	cost         ml.IModelCost
	biasCol      int
}

func NewModel(inputSize int) *Model {
	return &Model{
		activationFn: &ml.SigmoidActivation{},
		weights:      ml.NewMatrix(1, inputSize+1),
		wGradients:   ml.NewGradients(1, inputSize+1),
		cost:         &ml.MSECost{},
		biasCol:      inputSize,
	}
}

func (m *Model) ApplyGradients() {
	m.wGradients.Apply(&m.weights)
}

func (m *Model) CalcCost(sample *Sample) float64 {
	var cost float64
	m.work(sample, false, &cost)
	return cost
}

func (m *Model) Train(sample *Sample) {
	var cost float64
	m.work(sample, true, &cost)
}

func (m *Model) work(sample *Sample, train bool, cost *float64) {
	var x = m.weights.Get(0, m.biasCol)
	for _, input := range sample.Features {
		x += m.weights.Get(0, int(input.Index)) * float64(input.Value)
	}
	var predicted = m.activationFn.Sigma(x)
	if !train {
		*cost = m.cost.Cost(predicted, float64(sample.Target))
		return
	}
	// back propagation
	var outputGradient = m.cost.CostPrime(predicted, float64(sample.Target)) *
		m.activationFn.SigmaPrime(x)
	for _, input := range sample.Features {
		m.wGradients.Add(0, int(input.Index), float64(input.Value)*outputGradient)
	}
	m.wGradients.Add(0, m.biasCol, outputGradient)
}

// Coefficients returns the fitted weight per feature index.
func (m *Model) Coefficients() []float64 {
	var result = make([]float64, m.biasCol)
	copy(result, m.weights.Data[:m.biasCol])
	return result
}

func (m *Model) Intercept() float64 {
	return m.weights.Get(0, m.biasCol)
}

func (m *Model) ThreadCopy() *Model {
	return &Model{
		activationFn: m.activationFn,
		weights:      m.weights,
		wGradients:   ml.NewGradients(m.wGradients.Rows, m.wGradients.Cols),
		cost:         m.cost,
		biasCol:      m.biasCol,
	}
}

func (m *Model) AddGradients(mainModel *Model) {
	if m == mainModel {
		return
	}
	m.wGradients.AddTo(&mainModel.wGradients)
}
