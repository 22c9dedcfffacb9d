package decision

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/shrinksense/shrinksense-backend/internal/modules/donation"
	"github.com/shrinksense/shrinksense-backend/internal/modules/inventory"
	"github.com/shrinksense/shrinksense-backend/internal/modules/reallocation"
	"github.com/shrinksense/shrinksense-backend/internal/modules/risk"
	"github.com/shrinksense/shrinksense-backend/internal/modules/valuation"
)

// Service is the decision engine: risk scoring, strategy selection, and
// valuation for inventory items. Each evaluation is independent and
// side-effect-free; batches preserve input order.
type Service interface {
	// Evaluate runs the full pipeline for one item against a store snapshot.
	// A malformed item is rejected with *inventory.ValidationError before
	// any scoring happens.
	Evaluate(item *inventory.Item, stores []*inventory.Store, facts donation.Facts) (*Recommendation, error)

	// EvaluateBatch evaluates items in order, collecting per-record
	// validation failures without aborting the batch.
	EvaluateBatch(items []*inventory.Item, stores []*inventory.Store, facts donation.Facts) *BatchResult

	// EvaluateRequests evaluates ad-hoc item payloads against the stored
	// store snapshot, without persisting anything. Records preserve input
	// order; rows that fail to parse become per-record errors.
	EvaluateRequests(ctx context.Context, reqs []inventory.CreateItemRequest, facts donation.Facts) (*BatchResult, error)

	// EvaluateStored loads the current item and store records and evaluates
	// everything with the configured default facts.
	EvaluateStored(ctx context.Context) (*BatchResult, error)
}

type service struct {
	cfg       Config
	scorer    *risk.Scorer
	donations *donation.Evaluator
	realloc   *reallocation.Evaluator
	valuator  *valuation.Valuator
	itemRepo  inventory.ItemRepository
	storeRepo inventory.StoreRepository
	log       *logrus.Logger
}

// NewService wires the engine from its component evaluators. All of them are
// stateless over immutable config, so the service is safe for concurrent use.
func NewService(
	cfg Config,
	scorer *risk.Scorer,
	donations *donation.Evaluator,
	realloc *reallocation.Evaluator,
	valuator *valuation.Valuator,
	itemRepo inventory.ItemRepository,
	storeRepo inventory.StoreRepository,
	log *logrus.Logger,
) Service {
	return &service{
		cfg:       cfg,
		scorer:    scorer,
		donations: donations,
		realloc:   realloc,
		valuator:  valuator,
		itemRepo:  itemRepo,
		storeRepo: storeRepo,
		log:       log,
	}
}

// Fixed tie-break order for secondary options with equal margin impact.
var strategyPriority = map[valuation.StrategyType]int{
	valuation.StrategyDonate:             0,
	valuation.StrategyReallocateMarkdown: 1,
	valuation.StrategyReallocate:         2,
	valuation.StrategyMarkdown:           3,
	valuation.StrategyLiquidate:          4,
	valuation.StrategyNoAction:           5,
}

func (s *service) Evaluate(item *inventory.Item, stores []*inventory.Store, facts donation.Facts) (*Recommendation, error) {
	if verr := inventory.ValidateItem(item); verr != nil {
		return nil, verr
	}

	// Phase 1: risk and the two independent viability predicates.
	assessment := s.scorer.Score(item)
	opt := s.realloc.Evaluate(item, stores)
	donationOpen := s.donations.Viable(item, facts)

	vctx := valuation.Context{
		Realloc:          opt,
		DonationRecovery: s.donations.Recovery(item),
	}
	markdownPct := s.valuator.MarkdownPctFor(assessment.Level)

	// Phase 2: valuate every candidate before selecting among them, so the
	// recovery comparisons below never re-enter the evaluators.
	candidates := map[valuation.StrategyType]valuation.Result{
		valuation.StrategyNoAction:  s.valuator.Valuate(item, valuation.Strategy{Type: valuation.StrategyNoAction}, vctx),
		valuation.StrategyLiquidate: s.valuator.Valuate(item, valuation.Strategy{Type: valuation.StrategyLiquidate}, vctx),
	}
	if markdownPct > 0 {
		candidates[valuation.StrategyMarkdown] = s.valuator.Valuate(item,
			valuation.Strategy{Type: valuation.StrategyMarkdown, MarkdownPct: markdownPct}, vctx)
	}
	if donationOpen {
		candidates[valuation.StrategyDonate] = s.valuator.Valuate(item,
			valuation.Strategy{Type: valuation.StrategyDonate}, vctx)
	}
	if opt.Viable {
		candidates[valuation.StrategyReallocate] = s.valuator.Valuate(item,
			valuation.Strategy{Type: valuation.StrategyReallocate, DestinationCode: opt.Destination.Code}, vctx)
	}

	var tags []string
	tags = append(tags, fmt.Sprintf("risk-%s", assessment.Level))

	// Donation must beat liquidation to stay on the table.
	donationOK := donationOpen
	if donationOpen {
		if !candidates[valuation.StrategyDonate].ExpectedRecovery.GreaterThan(candidates[valuation.StrategyLiquidate].ExpectedRecovery) {
			donationOK = false
			delete(candidates, valuation.StrategyDonate)
			tags = append(tags, "donation-below-liquidation")
		} else {
			tags = append(tags, "donation-viable")
		}
	}

	// The combo survives only if its projected recovery strictly exceeds the
	// best viable single strategy. This is checked empirically, not assumed.
	comboOK := false
	if opt.Viable && opt.ComboEligible {
		comboResult := s.valuator.Valuate(item,
			valuation.Strategy{Type: valuation.StrategyReallocateMarkdown, MarkdownPct: markdownPct, DestinationCode: opt.Destination.Code}, vctx)
		if comboResult.ExpectedRecovery.GreaterThan(bestRecovery(candidates)) {
			comboOK = true
			candidates[valuation.StrategyReallocateMarkdown] = comboResult
			tags = append(tags, "combo-dominates")
		} else {
			tags = append(tags, "combo-dominated")
		}
	}
	if opt.Viable {
		tags = append(tags, fmt.Sprintf("destination-%s", opt.Destination.Code))
	} else {
		tags = append(tags, "no-destination")
	}

	primary := s.selectPrimary(assessment.Level, item.Category, candidates, donationOK, opt.Viable, comboOK)
	baseline := candidates[valuation.StrategyNoAction]

	return &Recommendation{
		SKU:           item.SKU,
		Name:          item.Name,
		Category:      item.Category,
		StoreCode:     item.StoreCode,
		Risk:          assessment,
		Primary:       primary,
		Secondary:     secondaryOptions(candidates, primary.Strategy.Type),
		Baseline:      baseline,
		PotentialLoss: valuation.PotentialLoss(item),
		AvoidedLoss:   primary.ExpectedRecovery.Sub(baseline.ExpectedRecovery),
		Rationale:     tags,
	}, nil
}

// selectPrimary walks the decision-table cell for (level, category) and picks
// the first rule whose requirement holds. Cells always end in an
// unconditional rule, so a primary is never absent.
func (s *service) selectPrimary(
	level risk.Level,
	category inventory.Category,
	candidates map[valuation.StrategyType]valuation.Result,
	donationOK, reallocOK, comboOK bool,
) valuation.Result {
	for _, rule := range s.cfg.Table[level][category] {
		switch rule.Requires {
		case RequireDonation:
			if !donationOK {
				continue
			}
		case RequireReallocation:
			if !reallocOK {
				continue
			}
		case RequireCombo:
			if !comboOK {
				continue
			}
		}
		if result, ok := candidates[rule.Strategy]; ok {
			return result
		}
	}
	// Config validation guarantees a NoAction or Liquidate fallback per cell.
	return candidates[valuation.StrategyNoAction]
}

// secondaryOptions lists the remaining valuated candidates, best margin
// impact first, ties broken by the fixed strategy priority. NoAction is not
// offered as an alternative.
func secondaryOptions(candidates map[valuation.StrategyType]valuation.Result, primary valuation.StrategyType) []valuation.Result {
	options := make([]valuation.Result, 0, len(candidates))
	for st, result := range candidates {
		if st == primary || st == valuation.StrategyNoAction {
			continue
		}
		options = append(options, result)
	}
	sort.SliceStable(options, func(i, j int) bool {
		cmp := options[i].MarginImpact.Cmp(options[j].MarginImpact)
		if cmp != 0 {
			return cmp > 0
		}
		return strategyPriority[options[i].Strategy.Type] < strategyPriority[options[j].Strategy.Type]
	})
	return options
}

func bestRecovery(candidates map[valuation.StrategyType]valuation.Result) decimal.Decimal {
	best := decimal.Zero
	first := true
	for _, r := range candidates {
		if first || r.ExpectedRecovery.GreaterThan(best) {
			best = r.ExpectedRecovery
			first = false
		}
	}
	return best
}

func (s *service) EvaluateBatch(items []*inventory.Item, stores []*inventory.Store, facts donation.Facts) *BatchResult {
	result := &BatchResult{Records: make([]Record, 0, len(items))}
	for _, item := range items {
		rec, err := s.Evaluate(item, stores, facts)
		if err != nil {
			verr, ok := err.(*inventory.ValidationError)
			if !ok {
				verr = &inventory.ValidationError{SKU: item.SKU, Field: "item", Message: err.Error()}
			}
			result.Records = append(result.Records, Record{Error: verr})
			result.Rejected++
			continue
		}
		result.Records = append(result.Records, Record{Recommendation: rec})
		result.Evaluated++
	}
	return result
}

func (s *service) EvaluateRequests(ctx context.Context, reqs []inventory.CreateItemRequest, facts donation.Facts) (*BatchResult, error) {
	stores, err := s.storeRepo.ListStores(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stores: %w", err)
	}
	result := &BatchResult{Records: make([]Record, 0, len(reqs))}
	for _, req := range reqs {
		item, verr := inventory.ItemFromRequest(req)
		if verr != nil {
			result.Records = append(result.Records, Record{Error: verr})
			result.Rejected++
			continue
		}
		rec, err := s.Evaluate(item, stores, facts)
		if err != nil {
			verr, ok := err.(*inventory.ValidationError)
			if !ok {
				verr = &inventory.ValidationError{SKU: item.SKU, Field: "item", Message: err.Error()}
			}
			result.Records = append(result.Records, Record{Error: verr})
			result.Rejected++
			continue
		}
		result.Records = append(result.Records, Record{Recommendation: rec})
		result.Evaluated++
	}
	return result, nil
}

func (s *service) EvaluateStored(ctx context.Context) (*BatchResult, error) {
	items, err := s.itemRepo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	stores, err := s.storeRepo.ListStores(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stores: %w", err)
	}
	batch := s.EvaluateBatch(items, stores, s.cfg.Facts)
	s.log.WithFields(logrus.Fields{
		"module":    "decision",
		"items":     len(items),
		"evaluated": batch.Evaluated,
		"rejected":  batch.Rejected,
	}).Info("evaluation run complete")
	return batch, nil
}
