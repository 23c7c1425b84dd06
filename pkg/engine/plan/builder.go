package plan

import (
	"time"

	"github.com/google/uuid"

	"github.com/DrSkyle/hdfslash/pkg/config"
	"github.com/DrSkyle/hdfslash/pkg/engine/advisor"
	"github.com/DrSkyle/hdfslash/pkg/engine/analyzer"
)

// Builder expands recommendations into plans.
type Builder struct {
	cfg config.PlanConfig
}

func NewBuilder(cfg config.PlanConfig) *Builder {
	return &Builder{cfg: cfg}
}

// Build dispatches every recommendation to its category builder.
// Categories without matching files produce no optimization at all rather
// than an empty one.
func (b *Builder) Build(res *analyzer.Result, recs []advisor.Recommendation, createdAt time.Time) *Plan {
	p := &Plan{
		PlanID:    uuid.NewString(),
		CreatedAt: createdAt,
	}

	for _, rec := range recs {
		var opt *Optimization
		switch rec.Category {
		case advisor.CategoryColdData:
			opt = b.buildColdData(res, rec)
		case advisor.CategorySmallFiles:
			opt = b.buildSmallFiles(res, rec)
		case advisor.CategoryReplication:
			opt = b.buildReplication(res, rec)
		case advisor.CategoryCleanup:
			opt = b.buildCleanup(res, rec)
		default:
			opt = buildGeneric(rec)
		}
		if opt != nil {
			p.Optimizations = append(p.Optimizations, *opt)
		}
	}

	for _, opt := range p.Optimizations {
		p.TotalMonthlySavings += opt.EstimatedMonthlySavings
		p.AffectedDataGB += opt.AffectedDataGB
	}
	p.TotalAnnualSavings = p.TotalMonthlySavings * 12
	p.EstimatedImplementationTime = estimateImplementationTime(p.Optimizations)
	return p
}

// buildColdData selects cold files old enough to migrate. The plan cutoff
// is tighter than the scan threshold so borderline files stay put.
func (b *Builder) buildColdData(res *analyzer.Result, rec advisor.Recommendation) *Optimization {
	var files []FileAction
	for _, f := range res.Cold {
		if f.DaysSinceAccess <= float64(b.cfg.ColdMigrationMinAgeDays) {
			continue
		}
		files = append(files, FileAction{
			Path:                 f.Path,
			Size:                 f.Size,
			SizeGB:               f.SizeGB(),
			DaysSinceAccess:      f.DaysSinceAccess,
			CurrentStoragePolicy: "HOT",
		})
	}
	if len(files) == 0 {
		return nil
	}

	var affected float64
	for _, f := range files {
		affected += f.SizeGB
	}
	return &Optimization{
		Category:                 advisor.CategoryColdData,
		Title:                    orDefault(rec.Title, "Cold Data Migration"),
		Description:              orDefault(rec.Description, "Migrate cold data to cheaper storage"),
		Files:                    files,
		EstimatedMonthlySavings:  rec.EstimatedSavingsGB * 0.03,
		AffectedDataGB:           affected,
		ImplementationComplexity: orDefault(rec.ImplementationComplexity, "medium"),
		Timeline:                 orDefault(rec.Timeline, "1-2 weeks"),
	}
}

// buildSmallFiles groups the scan's small files by parent directory and
// keeps directories with enough of them to be worth a merge job. Savings
// scale with every small file found, not only the grouped ones, since
// consolidation relieves the NameNode across the board.
func (b *Builder) buildSmallFiles(res *analyzer.Result, rec advisor.Recommendation) *Optimization {
	groups := make(map[string][]FileAction)
	var order []string
	for _, f := range res.Efficiency.SmallFiles {
		dir, _ := analyzer.SplitParent(f.Path)
		if _, ok := groups[dir]; !ok {
			order = append(order, dir)
		}
		groups[dir] = append(groups[dir], FileAction{
			Path:   f.Path,
			Size:   f.Size,
			SizeGB: f.SizeGB(),
		})
	}

	var targets []ConsolidationTarget
	for _, dir := range order {
		files := groups[dir]
		if len(files) < b.cfg.MinSmallFilesPerDir {
			continue
		}
		var gb float64
		for _, f := range files {
			gb += f.SizeGB
		}
		targets = append(targets, ConsolidationTarget{
			Path:        dir,
			SmallFiles:  files,
			FileCount:   len(files),
			TotalSizeGB: gb,
		})
	}
	if len(targets) == 0 {
		return nil
	}

	var affected float64
	for _, tgt := range targets {
		affected += tgt.TotalSizeGB
	}
	return &Optimization{
		Category:                 advisor.CategorySmallFiles,
		Title:                    orDefault(rec.Title, "Small Files Consolidation"),
		Description:              orDefault(rec.Description, "Consolidate small files to reduce overhead"),
		Directories:              targets,
		EstimatedMonthlySavings:  float64(res.Efficiency.SmallFilesCount) * 0.001,
		AffectedDataGB:           affected,
		ImplementationComplexity: orDefault(rec.ImplementationComplexity, "high"),
		Timeline:                 orDefault(rec.Timeline, "1 month"),
	}
}

func (b *Builder) buildReplication(res *analyzer.Result, rec advisor.Recommendation) *Optimization {
	var files []FileAction
	for _, f := range res.Efficiency.InefficientReplication {
		files = append(files, FileAction{
			Path:                 f.Path,
			Size:                 f.Size,
			SizeGB:               f.SizeGB(),
			CurrentReplication:   f.CurrentReplication,
			SuggestedReplication: f.SuggestedReplication,
		})
	}
	if len(files) == 0 {
		return nil
	}

	var affected float64
	for _, f := range files {
		affected += f.SizeGB
	}
	return &Optimization{
		Category:                 advisor.CategoryReplication,
		Title:                    orDefault(rec.Title, "Replication Optimization"),
		Description:              orDefault(rec.Description, "Optimize replication factors"),
		Files:                    files,
		EstimatedMonthlySavings:  rec.EstimatedSavingsGB * 0.04,
		AffectedDataGB:           affected,
		ImplementationComplexity: orDefault(rec.ImplementationComplexity, "low"),
		Timeline:                 orDefault(rec.Timeline, "immediate"),
	}
}

// buildCleanup pairs orphaned temp files with empty files. Empty files
// carry no recoverable bytes, so their size_gb stays zero and only the
// orphaned side moves the savings number.
func (b *Builder) buildCleanup(res *analyzer.Result, rec advisor.Recommendation) *Optimization {
	var files []FileAction
	for _, f := range res.Orphaned {
		files = append(files, FileAction{
			Path:            f.Path,
			Size:            f.Size,
			SizeGB:          f.SizeGB(),
			Type:            "orphaned",
			AgeDays:         f.AgeDays,
			CleanupPriority: f.CleanupPriority,
		})
	}
	for _, f := range res.Efficiency.EmptyFiles {
		files = append(files, FileAction{
			Path:            f.Path,
			Size:            f.Size,
			SizeGB:          0,
			Type:            "empty",
			CleanupPriority: "low",
		})
	}
	if len(files) == 0 {
		return nil
	}

	var gb float64
	for _, f := range files {
		gb += f.SizeGB
	}
	return &Optimization{
		Category:                 advisor.CategoryCleanup,
		Title:                    orDefault(rec.Title, "File Cleanup"),
		Description:              orDefault(rec.Description, "Remove unnecessary files"),
		Files:                    files,
		EstimatedMonthlySavings:  gb * 0.04 * 3,
		AffectedDataGB:           gb,
		ImplementationComplexity: orDefault(rec.ImplementationComplexity, "low"),
		Timeline:                 orDefault(rec.Timeline, "immediate"),
	}
}

func buildGeneric(rec advisor.Recommendation) *Optimization {
	return &Optimization{
		Category:                 orDefault(rec.Category, "generic"),
		Title:                    orDefault(rec.Title, "Generic Optimization"),
		Description:              rec.Description,
		EstimatedMonthlySavings:  rec.EstimatedSavingsGB * 0.04,
		AffectedDataGB:           rec.EstimatedSavingsGB,
		ImplementationComplexity: orDefault(rec.ImplementationComplexity, "medium"),
		Timeline:                 orDefault(rec.Timeline, "1-2 weeks"),
		Steps:                    rec.Steps,
	}
}

var complexityWeights = map[string]int{"low": 1, "medium": 2, "high": 3}

func estimateImplementationTime(opts []Optimization) string {
	total := 0
	for _, opt := range opts {
		w, ok := complexityWeights[opt.ImplementationComplexity]
		if !ok {
			w = 2
		}
		total += w
	}
	switch {
	case total <= 3:
		return "1-2 weeks"
	case total <= 6:
		return "1 month"
	default:
		return "2-3 months"
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
