package rebalance

import (
	"fmt"

	"github.com/tu-usuario/stock-sync/internal/domain"
	"github.com/tu-usuario/stock-sync/internal/domain/entity"
	syncdomain "github.com/tu-usuario/stock-sync/internal/domain/sync"
)

// Nombres de estrategias registradas.
const (
	StrategyThreshold    = "threshold"    // política estándar (por defecto)
	StrategyConservative = "conservative" // solo desbalances grandes, traslados mayores
)

// Strategy decide si un producto amerita un traslado de rebalanceo y cuál.
// Devuelve nil si el producto no es candidato bajo su política.
type Strategy interface {
	Name() string
	Plan(snap syncdomain.ProductSnapshot) *entity.RebalanceProposal
}

type policyStrategy struct {
	name   string
	policy syncdomain.RebalancePolicy
}

func (s *policyStrategy) Name() string { return s.name }

func (s *policyStrategy) Plan(snap syncdomain.ProductSnapshot) *entity.RebalanceProposal {
	return syncdomain.PlanRebalance(snap, s.policy)
}

// Registry resuelve estrategias por nombre. Nombre vacío usa la por defecto;
// nombre desconocido produce domain.ErrUnsupportedStrategy.
type Registry struct {
	strategies  map[string]Strategy
	defaultName string
}

// NewRegistry registra las estrategias estándar a partir de la política base.
func NewRegistry(base syncdomain.RebalancePolicy) *Registry {
	conservative := base
	conservative.ImbalanceRatio = base.ImbalanceRatio * 2
	conservative.MinTransferQty = base.MinTransferQty * 5

	r := &Registry{strategies: map[string]Strategy{}, defaultName: StrategyThreshold}
	r.Register(&policyStrategy{name: StrategyThreshold, policy: base})
	r.Register(&policyStrategy{name: StrategyConservative, policy: conservative})
	return r
}

// Register añade o reemplaza una estrategia.
func (r *Registry) Register(s Strategy) {
	r.strategies[s.Name()] = s
}

// Resolve devuelve la estrategia por nombre ("" = por defecto).
func (r *Registry) Resolve(name string) (Strategy, error) {
	if name == "" {
		name = r.defaultName
	}
	s, ok := r.strategies[name]
	if !ok {
		return nil, fmt.Errorf("estrategia de rebalanceo %q: %w", name, domain.ErrUnsupportedStrategy)
	}
	return s, nil
}
