/*
Package chain implements the four-state Markov chain behind the clock.

A Matrix is an immutable row-stochastic transition matrix built from integer
weights and a normalizer. Analyze approximates the stationary distribution by
raising the matrix to a high power and refuses to report when the result has
not settled. Step advances the chain by one transition given a uniform draw,
and Stepper binds a matrix to an injected random Source for repeated use.

# Usage

	m, err := chain.NewMatrix(chain.ReferenceWeights, chain.ReferenceNormalizer)
	if err != nil {
		return err
	}
	report, err := chain.Analyze(m)
	if err != nil {
		return err
	}
	st := chain.NewStepper(m, chain.NewSeededSource(42))
	next, err := st.Next(domain.InitialState)
*/
package chain
