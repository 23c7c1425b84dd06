package report

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/DrSkyle/hdfslash/pkg/engine/costs"
	"github.com/DrSkyle/hdfslash/pkg/engine/plan"
	"github.com/DrSkyle/hdfslash/pkg/scan"
	"github.com/DrSkyle/hdfslash/pkg/version"
)

type dashboardData struct {
	GeneratedTime string
	Version       string
	TotalSavings  string
	WasteGB       string
	TotalFiles    int
	Utilization   string
	GrowthRate    string
	ThreeYearCost string
	Plan          *planSummary
	ReportData    template.JS
	CapacityData  template.JS
}

type planSummary struct {
	PlanID         string
	MonthlySavings string
	AnnualSavings  string
	AffectedDataGB string
	Timeline       string
	ActionCount    int
}

// GenerateDashboard writes a single-file HTML dashboard for a completed
// scan. p is optional; when present a plan summary card is included.
func GenerateDashboard(rep *scan.Report, p *plan.Plan, rates costs.StorageCosts, path string) error {
	if err := rep.Ready(); err != nil {
		return err
	}
	items := extractItems(rep, rates)

	totalSavings := 0.0
	for _, item := range items {
		totalSavings += item.EstimatedSavings
	}

	// json.Marshal escapes <, > and & so the blobs are safe to inline
	// inside the script block.
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return err
	}

	fs := rep.ClusterMetrics.Filesystem
	capacity := map[string]float64{
		"used_gb":      float64(fs.CapacityUsed) / (1 << 30),
		"remaining_gb": float64(fs.CapacityRemaining) / (1 << 30),
	}
	capacityJSON, err := json.Marshal(capacity)
	if err != nil {
		return err
	}

	forecast := costs.NewCalculator(rates, nil).GrowthForecast(
		costs.Usage{TotalFiles: rep.TotalFiles, TotalSizeGB: rep.TotalSizeGB},
		rep.EfficiencyAnalysis.SmallFilesCount,
		costs.DefaultGrowthRatePercent,
	)

	data := dashboardData{
		GeneratedTime: time.Now().Format("2006-01-02 15:04:05"),
		Version:       version.Current,
		TotalSavings:  fmt.Sprintf("%.2f", totalSavings),
		WasteGB:       fmt.Sprintf("%.1f", float64(rep.WasteAnalysis.TotalWasteBytes)/(1<<30)),
		TotalFiles:    rep.TotalFiles,
		Utilization:   fmt.Sprintf("%.1f", rep.ClusterMetrics.UtilizationPercent()),
		GrowthRate:    fmt.Sprintf("%.0f", float64(costs.DefaultGrowthRatePercent)),
		ThreeYearCost: fmt.Sprintf("%.2f", forecast.ThreeYearTotalCost),
		ReportData:    template.JS(itemsJSON),
		CapacityData:  template.JS(capacityJSON),
	}
	if p != nil {
		actions := 0
		for _, opt := range p.Optimizations {
			actions += len(opt.Files) + len(opt.Directories)
		}
		data.Plan = &planSummary{
			PlanID:         p.PlanID,
			MonthlySavings: fmt.Sprintf("%.2f", p.TotalMonthlySavings),
			AnnualSavings:  fmt.Sprintf("%.2f", p.TotalAnnualSavings),
			AffectedDataGB: fmt.Sprintf("%.2f", p.AffectedDataGB),
			Timeline:       p.EstimatedImplementationTime,
			ActionCount:    actions,
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return dashboardTemplate.Execute(f, data)
}

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>HDFSlash Audit</title>
    <script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
    <style>
        :root {
            --bg: #050505;
            --surface: rgba(255, 255, 255, 0.03);
            --surface-hover: rgba(255, 255, 255, 0.06);
            --border: rgba(255, 255, 255, 0.1);
            --primary: #00FF99;
            --secondary: #874BFD;
            --danger: #FF3366;
            --text: #F8FAFC;
            --text-dim: #94A3B8;
        }

        /* 1. Base styles. */
        * { box-sizing: border-box; }
        body {
            background: var(--bg);
            color: var(--text);
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
            margin: 0;
            padding: 40px;
            font-size: 14px;
        }

        /* 2. Header styles. */
        .header {
            display: flex;
            justify-content: space-between;
            align-items: center;
            margin-bottom: 40px;
            border-bottom: 1px solid var(--border);
            padding-bottom: 20px;
        }
        .logo { font-size: 1.5rem; font-weight: 700; letter-spacing: -1px; }
        .logo span { color: var(--primary); }
        .meta { color: var(--text-dim); }

        /* 3. KPI styles. */
        .kpi-grid {
            display: grid;
            grid-template-columns: repeat(5, 1fr);
            gap: 20px;
            margin-bottom: 40px;
        }
        .card {
            background: var(--surface);
            border: 1px solid var(--border);
            border-radius: 16px;
            padding: 24px;
            transition: transform 0.2s, background 0.2s;
        }
        .card:hover { background: var(--surface-hover); transform: translateY(-2px); }
        .card h3 { margin: 0 0 10px 0; font-size: 0.75rem; color: var(--text-dim); text-transform: uppercase; letter-spacing: 1.2px; }
        .card .value { font-size: 2.2rem; font-weight: 700; }
        .card .value.cost { color: var(--danger); }
        .card .value.safe { color: var(--primary); }

        /* 4. Analytics chart styles. */
        .analytics-grid {
            display: grid;
            grid-template-columns: 2fr 1fr;
            gap: 20px;
            margin-bottom: 40px;
        }
        .chart-container {
            background: var(--surface);
            border: 1px solid var(--border);
            border-radius: 16px;
            padding: 24px;
            position: relative;
            height: 350px;
            display: flex;
            flex-direction: column;
        }
        .chart-header {
            font-size: 0.85rem;
            font-weight: 600;
            margin-bottom: 16px;
            color: var(--text);
            display: flex;
            justify-content: space-between;
        }
        .chart-body { flex: 1; position: relative; width: 100%; overflow: hidden; }

        /* 5. Plan summary styles. */
        .plan-card {
            background: var(--surface);
            border: 1px solid var(--border);
            border-radius: 16px;
            padding: 24px;
            margin-bottom: 40px;
        }
        .plan-card h2 { margin: 0 0 16px 0; font-size: 1rem; }
        .plan-card h2 span { color: var(--text-dim); font-weight: 400; font-size: 0.8rem; }
        .plan-stats { display: flex; gap: 40px; color: var(--text-dim); }
        .plan-stats strong { color: var(--text); display: block; font-size: 1.3rem; }

        /* 6. Data grid styles. */
        .table-wrapper {
            background: var(--surface);
            border: 1px solid var(--border);
            border-radius: 16px;
            overflow: hidden;
            display: flex;
            flex-direction: column;
        }

        .toolbar {
            padding: 16px 24px;
            border-bottom: 1px solid var(--border);
            display: flex;
            gap: 12px;
            align-items: center;
        }
        .search-box {
            background: rgba(0,0,0,0.3);
            border: 1px solid var(--border);
            border-radius: 8px;
            padding: 8px 12px;
            color: var(--text);
            font-family: inherit;
            width: 300px;
            outline: none;
        }
        .search-box:focus { border-color: var(--primary); }

        .table-scroll {
            width: 100%;
            overflow-x: auto;
        }

        table { width: 100%; border-collapse: collapse; min-width: 1000px; }
        th, td { padding: 16px 24px; text-align: left; border-bottom: 1px solid var(--border); white-space: nowrap; }
        th {
            background: rgba(0,0,0,0.5);
            color: var(--text-dim);
            font-size: 0.75rem;
            text-transform: uppercase;
            font-weight: 600;
            user-select: none;
        }
        tr:last-child td { border-bottom: none; }
        tr:hover { background: rgba(255,255,255,0.02); }

        .badge { padding: 4px 10px; border-radius: 20px; font-size: 0.7rem; font-weight: 700; }
        .badge.DELETE { background: rgba(255, 51, 102, 0.15); color: var(--danger); }
        .badge.REVIEW { background: rgba(135, 75, 253, 0.15); color: var(--secondary); }
        .badge.ACT { background: rgba(0, 255, 153, 0.15); color: var(--primary); }

        /* 7. Footer styles. */
        footer { margin-top: 60px; color: var(--text-dim); font-size: 0.8rem; text-align: center; border-top: 1px solid var(--border); padding-top: 20px; }
    </style>
</head>
<body>

    <div class="header">
        <div class="logo">HDFS<span>LASH</span>_AUDIT</div>
        <div class="meta">Generated: {{.GeneratedTime}}</div>
    </div>

    <!-- 1. KPI Cards section. -->
    <div class="kpi-grid">
        <div class="card">
            <h3>Monthly Recoverable</h3>
            <div class="value cost">${{.TotalSavings}}</div>
        </div>
        <div class="card">
            <h3>Waste Identified</h3>
            <div class="value">{{.WasteGB}}GB</div>
        </div>
        <div class="card">
            <h3>Files Scanned</h3>
            <div class="value safe">{{.TotalFiles}}</div>
        </div>
        <div class="card">
            <h3>Capacity Used</h3>
            <div class="value">{{.Utilization}}%</div>
        </div>
        <div class="card">
            <h3>3yr Spend @ {{.GrowthRate}}% Growth</h3>
            <div class="value cost">${{.ThreeYearCost}}</div>
        </div>
    </div>

    <!-- 2. Charts section. -->
    <div class="analytics-grid">
        <div class="chart-container">
            <div class="chart-header">Monthly Savings by Category</div>
            <div class="chart-body">
                <canvas id="barChart"></canvas>
            </div>
        </div>
        <div class="chart-container">
            <div class="chart-header">Cluster Capacity</div>
            <div class="chart-body">
                <canvas id="pieChart"></canvas>
            </div>
        </div>
    </div>

    {{if .Plan}}
    <!-- 3. Plan summary section. -->
    <div class="plan-card">
        <h2>Optimization Plan <span>{{.Plan.PlanID}}</span></h2>
        <div class="plan-stats">
            <div>Monthly Savings<strong>${{.Plan.MonthlySavings}}</strong></div>
            <div>Annual Savings<strong>${{.Plan.AnnualSavings}}</strong></div>
            <div>Affected Data<strong>{{.Plan.AffectedDataGB}}GB</strong></div>
            <div>Actions<strong>{{.Plan.ActionCount}}</strong></div>
            <div>Timeline<strong>{{.Plan.Timeline}}</strong></div>
        </div>
    </div>
    {{end}}

    <!-- 4. Data Grid section. -->
    <div class="table-wrapper">
        <div class="toolbar">
            <input type="text" id="searchInput" class="search-box" placeholder="Filter findings..." onkeyup="filterTable()">
        </div>
        <div class="table-scroll">
            <table id="findingsTable">
                <thead>
                    <tr>
                        <th>Category</th>
                        <th>Path</th>
                        <th>Size (GB)</th>
                        <th>Age (Days)</th>
                        <th>Monthly Cost</th>
                        <th>Est. Savings</th>
                        <th>Action</th>
                    </tr>
                </thead>
                <tbody id="table-body">
                    <!-- JS Injection -->
                </tbody>
            </table>
        </div>
    </div>

    <footer>
        Generated by HDFSlash {{.Version}} (Apache-2.0) | HDFS Storage Cost Advisor
    </footer>

    <script>
        // --- DATA ---
        window.REPORT_DATA = {{.ReportData}};
        window.CAPACITY_DATA = {{.CapacityData}};
        const currency = new Intl.NumberFormat('en-US', { style: 'currency', currency: 'USD', maximumFractionDigits: 4 });

        // --- 1. TABLE INITIALIZATION ---
        const tbody = document.getElementById('table-body');

        function badgeClass(action) {
            if (action === 'DELETE') return 'DELETE';
            if (action === 'REVIEW') return 'REVIEW';
            return 'ACT';
        }

        function renderTable(data) {
            tbody.innerHTML = '';
            data.forEach(item => {
                const tr = document.createElement('tr');
                const costStyle = item.monthly_cost > 0 ? 'color: #FF3366; font-weight: bold;' : 'color: #94A3B8;';

                const cells = [
                    {text: item.category, style: 'opacity:0.8; font-weight: 500;'},
                    {text: item.path, style: 'font-weight:600; color: #fff;'},
                    {text: item.size_gb.toFixed(4), style: ''},
                    {text: item.age_days.toFixed(1), style: ''},
                    {text: currency.format(item.monthly_cost), style: costStyle},
                    {text: currency.format(item.estimated_savings), style: 'color: #00FF99;'}
                ];
                cells.forEach(c => {
                    const td = document.createElement('td');
                    td.textContent = c.text;
                    td.style.cssText = c.style;
                    tr.appendChild(td);
                });

                const actionTd = document.createElement('td');
                const badge = document.createElement('span');
                badge.className = 'badge ' + badgeClass(item.action);
                badge.textContent = item.action;
                actionTd.appendChild(badge);
                tr.appendChild(actionTd);

                tbody.appendChild(tr);
            });
        }
        renderTable(window.REPORT_DATA);

        // --- 2. SEARCH ---
        function filterTable() {
            const input = document.getElementById('searchInput');
            const filter = input.value.toUpperCase();
            const filtered = window.REPORT_DATA.filter(item => {
                return Object.values(item).some(val =>
                    String(val).toUpperCase().includes(filter)
                );
            });
            renderTable(filtered);
        }

        // --- 3. CHARTS ---

        // 3.1 Gradient Helper
        function createGradient(ctx, colorStart, colorEnd) {
            const gradient = ctx.createLinearGradient(0, 400, 0, 0);
            gradient.addColorStop(0, colorStart);
            gradient.addColorStop(1, colorEnd);
            return gradient;
        }

        // Aggregate savings per category.
        const categoryMap = {};
        window.REPORT_DATA.forEach(item => {
            categoryMap[item.category] = (categoryMap[item.category] || 0) + item.estimated_savings;
        });
        const sortedCategories = Object.entries(categoryMap).sort((a,b) => b[1] - a[1]);
        const labels = sortedCategories.map(s => s[0]);
        const dataValues = sortedCategories.map(s => s[1]);

        // 3.2 Bar Chart
        const ctxBar = document.getElementById('barChart').getContext('2d');
        const barGradient = createGradient(ctxBar, 'rgba(0, 255, 153, 0.2)', '#00FF99');

        new Chart(ctxBar, {
            type: 'bar',
            data: {
                labels: labels,
                datasets: [{
                    label: 'Monthly Savings ($)',
                    data: dataValues,
                    backgroundColor: barGradient,
                    borderColor: '#00FF99',
                    borderWidth: 1,
                    borderRadius: 6,
                    barThickness: 'flex',
                    maxBarThickness: 40
                }]
            },
            options: {
                responsive: true,
                maintainAspectRatio: false,
                animation: { duration: 1500, easing: 'easeOutQuart' },
                plugins: {
                    legend: { display: false },
                    tooltip: {
                        backgroundColor: 'rgba(10,10,10,0.9)',
                        titleColor: '#fff',
                        bodyColor: '#ccc',
                        borderColor: 'rgba(255,255,255,0.1)',
                        borderWidth: 1,
                        padding: 10,
                        displayColors: false,
                        callbacks: {
                            label: function(context) {
                                return currency.format(context.raw);
                            }
                        }
                    }
                },
                scales: {
                    y: {
                        beginAtZero: true,
                        grid: { color: 'rgba(255,255,255,0.03)', drawBorder: false },
                        ticks: { color: '#64748B', font: { family: 'monospace' }, callback: (val) => '$'+val }
                    },
                    x: {
                        grid: { display: false },
                        ticks: { color: '#94A3B8', font: { weight: 600 } }
                    }
                }
            }
        });

        // 3.3 Doughnut Chart.
        const usedGB = window.CAPACITY_DATA.used_gb;
        const remainingGB = window.CAPACITY_DATA.remaining_gb;

        const ctxPie = document.getElementById('pieChart').getContext('2d');
        const gradientUsed = createGradient(ctxPie, '#FF3366', '#FF99AA');
        const gradientFree = createGradient(ctxPie, '#00FF99', '#00CC7A');

        new Chart(ctxPie, {
            type: 'doughnut',
            data: {
                labels: ['Used (GB)', 'Remaining (GB)'],
                datasets: [{
                    data: [usedGB, remainingGB],
                    backgroundColor: [gradientUsed, gradientFree],
                    borderColor: ['#000', '#000'],
                    borderWidth: 2,
                    hoverOffset: 10
                }]
            },
            options: {
                responsive: true,
                maintainAspectRatio: false,
                cutout: '75%',
                animation: { animateScale: true, animateRotate: true, duration: 2000 },
                plugins: {
                    legend: { position: 'bottom', labels: { color: '#94A3B8', padding: 20, font: { size: 11 } } },
                    tooltip: {
                         backgroundColor: 'rgba(10,10,10,0.9)',
                         bodyFont: { size: 13 },
                         callbacks: {
                             label: function(context) {
                                 return " " + context.label + ": " + context.raw.toFixed(1);
                             }
                         }
                    }
                }
            }
        });
    </script>
</body>
</html>`))
