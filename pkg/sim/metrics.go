package sim

import "gonum.org/v1/gonum/mat"

// ClassScores are per-class rates derived from a confusion matrix, as
// fractions in [0,1].
type ClassScores struct {
	Recall    [Classes]float64
	Precision [Classes]float64
	// Accuracy is the diagonal mass over the whole matrix.
	Accuracy float64
}

func (m Matrix) dense() *mat.Dense {
	data := make([]float64, 0, Classes*Classes)
	for r := 0; r < Classes; r++ {
		for c := 0; c < Classes; c++ {
			data = append(data, float64(m[r][c]))
		}
	}
	return mat.NewDense(Classes, Classes, data)
}

// Scores computes recall (row-wise), precision (column-wise) and overall
// accuracy. Rows or columns that sum to zero score 0.
func (m Matrix) Scores() ClassScores {
	d := m.dense()
	ones := mat.NewVecDense(Classes, nil)
	for i := 0; i < Classes; i++ {
		ones.SetVec(i, 1)
	}
	var rowSums, colSums mat.VecDense
	rowSums.MulVec(d, ones)
	colSums.MulVec(d.T(), ones)

	var out ClassScores
	diag := 0.0
	for i := 0; i < Classes; i++ {
		hit := d.At(i, i)
		diag += hit
		if s := rowSums.AtVec(i); s > 0 {
			out.Recall[i] = hit / s
		}
		if s := colSums.AtVec(i); s > 0 {
			out.Precision[i] = hit / s
		}
	}
	if total := mat.Sum(d); total > 0 {
		out.Accuracy = diag / total
	}
	return out
}
