// Command gprdemo fits a 1-D Gaussian process to noisy samples of a
// sine wave, optimizing the kernel hyperparameters by marginal
// likelihood, and renders the posterior mean with a 2-sigma band.
package main

import (
	"fmt"
	"log"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/srinix007/gogpr/covar"
	"github.com/srinix007/gogpr/gpr"
	"github.com/srinix007/gogpr/hyperopt"
	"github.com/srinix007/gogpr/rng"
)

const (
	ns  = 12
	np  = 120
	dim = 1
)

func main() {
	src := rng.New(42)
	noise := make([]float64, ns)
	src.FillNormal(noise)

	x := make([]float64, ns)
	y := make([]float64, ns)
	for i := range x {
		x[i] = 2 * math.Pi * float64(i) / float64(ns-1)
		y[i] = math.Sin(x[i]) + 0.05*noise[i]
	}
	xp := make([]float64, np)
	ya := make([]float64, np)
	for i := range xp {
		xp[i] = 2 * math.Pi * float64(i) / float64(np-1)
		ya[i] = math.Sin(xp[i])
	}

	cov := covar.NewSqExpARD()
	p := cov.DefaultParams(dim)
	opt := &hyperopt.MLE{Cov: cov}

	yp := make([]float64, np)
	varYp := make([]float64, np*np)
	if err := gpr.Interpolate(cov, opt, xp, x, y, dim, p, yp, varYp); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("hyperparameters after optimization: %.4f\n", p)

	covOut := gpr.SymmetricFromBuffer(varYp, np)
	report, err := gpr.Diagnostics(yp, covOut, ya, gpr.DefaultJitter)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("RMSE: %.3e  spread: %.3e  reduced chi-sq: %.3f\n",
		report.RMSE, report.SDSum, report.RChiSq)

	if err := render(x, y, xp, yp, varYp); err != nil {
		log.Fatal(err)
	}
	fmt.Println("wrote gp_posterior.png")
}

func render(x, y, xp, yp, varYp []float64) error {
	mean := make(plotter.XYs, np)
	upper := make(plotter.XYs, np)
	lower := make(plotter.XYs, np)
	for i := 0; i < np; i++ {
		sd := 2 * math.Sqrt(math.Max(varYp[i*np+i], 0))
		mean[i] = plotter.XY{X: xp[i], Y: yp[i]}
		upper[i] = plotter.XY{X: xp[i], Y: yp[i] + sd}
		lower[i] = plotter.XY{X: xp[i], Y: yp[i] - sd}
	}
	obs := make(plotter.XYs, ns)
	for i := 0; i < ns; i++ {
		obs[i] = plotter.XY{X: x[i], Y: y[i]}
	}

	pl := plot.New()
	pl.Title.Text = "GP posterior"
	pl.X.Label.Text = "x"
	pl.Y.Label.Text = "y"

	meanLine, err := plotter.NewLine(mean)
	if err != nil {
		return err
	}
	upperLine, err := plotter.NewLine(upper)
	if err != nil {
		return err
	}
	lowerLine, err := plotter.NewLine(lower)
	if err != nil {
		return err
	}
	points, err := plotter.NewScatter(obs)
	if err != nil {
		return err
	}
	pl.Add(meanLine, upperLine, lowerLine, points)
	pl.Legend.Add("posterior mean", meanLine)
	pl.Legend.Add("observations", points)

	return pl.Save(7*vg.Inch, 5*vg.Inch, "gp_posterior.png")
}
