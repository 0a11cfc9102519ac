package piecewise

func (b IterativeBootstrap) Settled(change, maxErr, prevErr float64, pass int) bool {
	return b.settled(change, maxErr, prevErr, pass)
}
