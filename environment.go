package gbgp

import "fmt"

// EnvironmentConfig enumerates every tuning parameter an Environment needs.
type EnvironmentConfig struct {
	PopulationSize         int
	MaxDepth               int
	SurvivorsPerGeneration int
	Elites                 int
	MutationProbability    float64

	// RNGSeed seeds the environment's single RNG stream. If nil, the
	// environment seeds from the current time and is not reproducible.
	RNGSeed *int64
}

func (cfg EnvironmentConfig) validate() error {
	switch {
	case cfg.PopulationSize < 2:
		return fmt.Errorf("population_size must be >= 2, got %d", cfg.PopulationSize)
	case cfg.MaxDepth < 1:
		return fmt.Errorf("max_depth must be >= 1, got %d", cfg.MaxDepth)
	case cfg.SurvivorsPerGeneration < 1 || cfg.SurvivorsPerGeneration > cfg.PopulationSize:
		return fmt.Errorf("survivors_per_generation must be in [1,%d], got %d", cfg.PopulationSize, cfg.SurvivorsPerGeneration)
	case cfg.Elites < 0 || cfg.Elites > cfg.SurvivorsPerGeneration:
		return fmt.Errorf("elites must be in [0,%d], got %d", cfg.SurvivorsPerGeneration, cfg.Elites)
	case cfg.MutationProbability < 0 || cfg.MutationProbability > 1:
		return fmt.Errorf("mutation_probability must be in [0,1], got %v", cfg.MutationProbability)
	}
	return nil
}

// GenerationStats summarizes one generation's fitness distribution.
type GenerationStats struct {
	Generation  int
	BestFitness float64
	MeanFitness float64
}

// Environment drives the generational loop of select -> crossover -> mutate
// -> prune -> evaluate over a Population derived from a Grammar.
type Environment struct {
	grammar   *Grammar
	fitnessFn FitnessFunc
	cfg       EnvironmentConfig
	rng       *Rand

	population *Population
	generation int
	history    []GenerationStats
}

// NewEnvironment validates cfg, builds an initial population of
// cfg.PopulationSize random individuals, and evaluates all of their
// fitnesses.
func NewEnvironment(grammar *Grammar, fitnessFn FitnessFunc, cfg EnvironmentConfig) (*Environment, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	var rng *Rand
	if cfg.RNGSeed != nil {
		rng = NewRand(*cfg.RNGSeed)
	} else {
		rng = NewRandFromTime()
	}

	env := &Environment{
		grammar:    grammar,
		fitnessFn:  fitnessFn,
		cfg:        cfg,
		rng:        rng,
		population: NewPopulation(),
	}

	for i := 0; i < cfg.PopulationSize; i++ {
		tree, err := CreateRandomTree(grammar, cfg.MaxDepth, rng)
		if err != nil {
			return nil, err
		}
		ind := NewIndividual(tree)
		ind.EvaluateFitness(fitnessFn)
		env.population.Add(ind)
	}

	env.recordStats()
	return env, nil
}

// GetPopulation returns the current population.
func (env *Environment) GetPopulation() *Population {
	return env.population
}

// GetGenerationNumber returns how many generations have elapsed (0 right
// after construction).
func (env *Environment) GetGenerationNumber() int {
	return env.generation
}

// History returns, in generation order, the best/mean fitness recorded
// after construction and after every completed Optimize call.
func (env *Environment) History() []GenerationStats {
	out := make([]GenerationStats, len(env.history))
	copy(out, env.history)
	return out
}

// Optimize advances the population by one generation:
//  1. rank the current population by fitness descending;
//  2. select survivors_per_generation individuals: the top `elites` first,
//     then fitness-proportional sampling without replacement from the rest;
//  3. carry the `elites` individuals into the next generation unchanged;
//  4. refill the remaining slots to population_size by repeatedly drawing
//     two parents (fitness-proportional, with replacement) from the
//     survivor pool, crossing them over, independently mutating each
//     offspring with probability mutation_probability, pruning, evaluating,
//     and inserting;
//  5. replace the population.
//
// If a fitness callback or semantic action errors out partway through step
// 4, Optimize aborts and the prior generation is left in place.
func (env *Environment) Optimize() error {
	ranked := env.rankedIndividuals()

	survivors := make([]*Individual, 0, env.cfg.SurvivorsPerGeneration)
	survivors = append(survivors, ranked[:env.cfg.Elites]...)

	remaining := make([]*Individual, len(ranked)-env.cfg.Elites)
	copy(remaining, ranked[env.cfg.Elites:])

	need := env.cfg.SurvivorsPerGeneration - env.cfg.Elites
	for i := 0; i < need && len(remaining) > 0; i++ {
		idx := sampleProportionalIndex(remaining, env.rng)
		survivors = append(survivors, remaining[idx])
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}

	next := NewPopulation()
	for _, elite := range ranked[:env.cfg.Elites] {
		next.Add(elite.Copy())
	}

	for next.Size() < env.cfg.PopulationSize {
		parentA := survivors[sampleProportionalIndex(survivors, env.rng)]
		parentB := survivors[sampleProportionalIndex(survivors, env.rng)]

		childA, childB := Crossover(parentA.Tree, parentB.Tree, env.rng)

		for _, tree := range []*SyntaxTree{childA, childB} {
			if next.Size() >= env.cfg.PopulationSize {
				break
			}

			if env.rng.Float64() < env.cfg.MutationProbability {
				mutated, err := Mutate(tree, env.grammar, env.cfg.MaxDepth, env.rng)
				if err != nil {
					return err
				}
				tree = mutated
			}

			pruned, err := PruneTree(env.grammar, tree)
			if err != nil {
				return err
			}

			ind := NewIndividual(pruned)
			ind.EvaluateFitness(env.fitnessFn)
			next.Add(ind)
		}
	}

	env.population = next
	env.generation++
	env.recordStats()
	return nil
}

// Run advances the environment by nGenerations, stopping early (and
// returning the error) if any Optimize call fails.
func (env *Environment) Run(nGenerations int) error {
	for i := 0; i < nGenerations; i++ {
		if err := env.Optimize(); err != nil {
			return err
		}
	}
	return nil
}

func (env *Environment) rankedIndividuals() []*Individual {
	ranking := env.population.Ranking()
	all := env.population.Individuals()
	ranked := make([]*Individual, len(ranking))
	for i, idx := range ranking {
		ranked[i] = all[idx]
	}
	return ranked
}

func (env *Environment) recordStats() {
	stats := GenerationStats{Generation: env.generation}

	inds := env.population.Individuals()
	if len(inds) == 0 {
		env.history = append(env.history, stats)
		return
	}

	best := env.population.FittestByRank(0)
	bestFitness, _ := best.Fitness()
	stats.BestFitness = bestFitness

	total := 0.0
	for _, ind := range inds {
		f, ok := ind.Fitness()
		if ok {
			total += f
		}
	}
	stats.MeanFitness = total / float64(len(inds))

	env.history = append(env.history, stats)
}
