package config

// DefaultIgnorePatterns are path substrings skipped during the tree walk.
var DefaultIgnorePatterns = []string{
	"node_modules",
	"__pycache__",
	"venv",
	"site-packages",
	"vendor",
	"dist",
	"build",
	"target",
	"coverage",
	"*.min.js",
	"*.min.css",
	"*.pyc",
	"*.lock",
	"package-lock.json",
	"go.sum",
}

// defaultLineFactors is kWh per line of code. Relative magnitudes follow the
// published cross-language energy-efficiency rankings, with C as the baseline.
var defaultLineFactors = map[string]float64{
	"c":           0.0000100,
	"rust":        0.0000103,
	"c++":         0.0000134,
	"ada":         0.0000170,
	"java":        0.0000198,
	"fortran":     0.0000200,
	"swift":       0.0000279,
	"go":          0.0000323,
	"c#":          0.0000314,
	"objective-c": 0.0000300,
	"kotlin":      0.0000210,
	"scala":       0.0000250,
	"dart":        0.0000350,
	"haskell":     0.0000357,
	"ocaml":       0.0000240,
	"f#":          0.0000430,
	"javascript":  0.0000445,
	"typescript":  0.0000445,
	"vue":         0.0000445,
	"svelte":      0.0000445,
	"lisp":        0.0000227,
	"clojure":     0.0000300,
	"erlang":      0.0000420,
	"elixir":      0.0000420,
	"lua":         0.0000500,
	"php":         0.0000600,
	"ruby":        0.0000700,
	"perl":        0.0000790,
	"python":      0.0000759,
	"r":           0.0000800,
	"julia":       0.0000300,
	"matlab":      0.0000700,
	"shell":       0.0000300,
	"powershell":  0.0000400,
	"sql":         0.0000200,
	"default":     0.0000500,
}

var defaultComplexityMultipliers = map[string]float64{
	"low":       1.0,
	"medium":    1.3,
	"high":      1.6,
	"very_high": 2.0,
}

// defaultFrameworkOverheads is a fixed kWh overhead per detected framework.
var defaultFrameworkOverheads = map[string]float64{
	"django":       0.50,
	"flask":        0.10,
	"fastapi":      0.15,
	"tensorflow":   2.00,
	"pytorch":      1.80,
	"pandas":       0.30,
	"numpy":        0.20,
	"scikit-learn": 0.40,
	"react":        0.30,
	"angular":      0.40,
	"vue":          0.25,
	"svelte":       0.15,
	"nextjs":       0.35,
	"express":      0.15,
	"nestjs":       0.30,
	"electron":     0.80,
	"spring":       0.60,
	"hibernate":    0.30,
	"quarkus":      0.30,
	"rails":        0.45,
	"laravel":      0.35,
	"symfony":      0.35,
	"gin":          0.05,
	"echo":         0.05,
	"fiber":        0.05,
	"actix":        0.05,
	"rocket":       0.06,
	"aspnet":       0.40,
	"flutter":      0.35,
	"default":      0.20,
}

// defaultActivityRates is kWh per hour of each development activity.
var defaultActivityRates = map[string]float64{
	"coding":      0.050,
	"debugging":   0.060,
	"testing":     0.080,
	"compilation": 0.150,
	"review":      0.040,
	"deploy":      0.100,
}

// defaultDevelopmentShares splits development hours across activities.
var defaultDevelopmentShares = map[string]float64{
	"coding":      0.40,
	"debugging":   0.20,
	"testing":     0.15,
	"compilation": 0.10,
	"review":      0.10,
	"deploy":      0.05,
}

// defaultCO2Factors is kg CO2 per kWh for each grid profile.
var defaultCO2Factors = map[string]float64{
	string(GridGlobalAverage):  0.475,
	string(GridRenewableHeavy): 0.050,
	string(GridCoalHeavy):      0.820,
	string(GridNaturalGas):     0.490,
	string(GridNuclear):        0.012,
}

// defaultLanguageMultipliers weigh each file of a language in the project
// complexity indicator. Unlisted languages weigh 1.
var defaultLanguageMultipliers = map[string]float64{
	"python":      1.0,
	"javascript":  1.0,
	"typescript":  1.2,
	"ruby":        1.0,
	"php":         1.0,
	"go":          1.2,
	"java":        1.5,
	"kotlin":      1.4,
	"scala":       1.8,
	"c#":          1.5,
	"swift":       1.4,
	"dart":        1.2,
	"c":           2.0,
	"c++":         2.5,
	"rust":        2.2,
	"objective-c": 2.0,
	"haskell":     2.5,
	"fortran":     2.0,
	"assembly":    3.0,
	"shell":       0.8,
	"html":        0.3,
	"css":         0.3,
	"json":        0.1,
	"yaml":        0.1,
	"toml":        0.1,
	"xml":         0.2,
	"markdown":    0.1,
	"text":        0.1,
}

var defaultBuildTools = map[string]float64{
	"maven":      1.5,
	"gradle":     1.4,
	"bazel":      1.3,
	"cargo":      1.3,
	"cmake":      1.2,
	"webpack":    1.3,
	"dotnet":     1.3,
	"npm":        1.1,
	"make":       1.0,
	"bundler":    1.0,
	"poetry":     0.9,
	"setuptools": 0.9,
	"go":         0.8,
	"default":    1.0,
}

// DefaultHeavyDependencies is the denylist of historically resource-intensive
// libraries. A declared package containing any entry is heavy.
var DefaultHeavyDependencies = []string{
	"tensorflow",
	"torch",
	"keras",
	"jax",
	"scikit-learn",
	"sklearn",
	"pandas",
	"numpy",
	"scipy",
	"matplotlib",
	"seaborn",
	"plotly",
	"bokeh",
	"opencv",
	"transformers",
	"spacy",
	"nltk",
	"pyspark",
	"hadoop",
	"django",
	"spring-boot",
	"springframework",
	"@angular/core",
	"rails",
	"electron",
	"puppeteer",
	"selenium",
	"playwright",
	"d3",
	"echarts",
	"chart.js",
}

// DefaultHeavyFrameworks are frameworks whose presence triggers the
// lighter-framework optimization opportunity.
var DefaultHeavyFrameworks = []string{
	"django",
	"spring",
	"angular",
	"tensorflow",
	"pytorch",
	"rails",
	"electron",
	"aspnet",
}

// DefaultFrameworkRules is the static framework indicator table.
var DefaultFrameworkRules = []FrameworkRule{
	{Name: "django", Language: "Python", Dependencies: []string{"django"}, Files: []string{"manage.py"}, Dirs: []string{"migrations"}},
	{Name: "flask", Language: "Python", Dependencies: []string{"flask"}, Files: []string{"wsgi.py"}, Dirs: []string{"templates"}},
	{Name: "fastapi", Language: "Python", Dependencies: []string{"fastapi"}, Files: []string{"main.py"}},
	{Name: "tensorflow", Language: "Python", Dependencies: []string{"tensorflow", "keras"}, Dirs: []string{"saved_model"}},
	{Name: "pytorch", Language: "Python", Dependencies: []string{"torch"}, Dirs: []string{"checkpoints"}},
	{Name: "pandas", Language: "Python", Dependencies: []string{"pandas"}},
	{Name: "numpy", Language: "Python", Dependencies: []string{"numpy"}},
	{Name: "scikit-learn", Language: "Python", Dependencies: []string{"scikit-learn", "sklearn"}},
	{Name: "react", Language: "JavaScript", Dependencies: []string{"react"}, Dirs: []string{"src/components"}},
	{Name: "angular", Language: "TypeScript", Dependencies: []string{"@angular/core"}, Files: []string{"angular.json"}},
	{Name: "vue", Language: "JavaScript", Dependencies: []string{"vue"}, Files: []string{"vue.config.js"}},
	{Name: "svelte", Language: "JavaScript", Dependencies: []string{"svelte"}, Files: []string{"svelte.config.js"}},
	{Name: "nextjs", Language: "JavaScript", Dependencies: []string{"next"}, Files: []string{"next.config.js", "next.config.mjs"}, Dirs: []string{"pages"}},
	{Name: "express", Language: "JavaScript", Dependencies: []string{"express"}, Dirs: []string{"routes"}},
	{Name: "nestjs", Language: "TypeScript", Dependencies: []string{"@nestjs/core"}, Files: []string{"nest-cli.json"}},
	{Name: "electron", Language: "JavaScript", Dependencies: []string{"electron"}, Files: []string{"electron-builder.yml"}},
	{Name: "spring", Language: "Java", Dependencies: []string{"spring-boot", "springframework"}, Files: []string{"src/main/resources/application.properties", "src/main/resources/application.yml"}},
	{Name: "hibernate", Language: "Java", Dependencies: []string{"hibernate"}, Files: []string{"src/main/resources/hibernate.cfg.xml"}},
	{Name: "quarkus", Language: "Java", Dependencies: []string{"quarkus"}},
	{Name: "rails", Language: "Ruby", Dependencies: []string{"rails"}, Files: []string{"config/routes.rb"}, Dirs: []string{"app/controllers"}},
	{Name: "laravel", Language: "PHP", Dependencies: []string{"laravel/framework"}, Files: []string{"artisan"}},
	{Name: "symfony", Language: "PHP", Dependencies: []string{"symfony/framework-bundle"}, Files: []string{"symfony.lock"}},
	{Name: "gin", Language: "Go", Dependencies: []string{"github.com/gin-gonic/gin"}},
	{Name: "echo", Language: "Go", Dependencies: []string{"github.com/labstack/echo"}},
	{Name: "fiber", Language: "Go", Dependencies: []string{"github.com/gofiber/fiber"}},
	{Name: "actix", Language: "Rust", Dependencies: []string{"actix-web"}},
	{Name: "rocket", Language: "Rust", Dependencies: []string{"rocket"}, Files: []string{"Rocket.toml"}},
	{Name: "aspnet", Language: "C#", Dependencies: []string{"Microsoft.AspNetCore"}, Files: []string{"appsettings.json"}},
	{Name: "flutter", Language: "Dart", Dependencies: []string{"flutter"}, Dirs: []string{"android", "ios"}},
}

// DefaultProjectTypes is the static project-type marker table, in tie-break order.
var DefaultProjectTypes = []ProjectTypeRule{
	{Name: "web_frontend", Files: []string{"package.json", "index.html", "vite.config.js", "webpack.config.js", "angular.json"}, Dirs: []string{"public", "src/components"}, Globs: []string{"*.jsx", "*.tsx", "*.vue", "*.svelte"}},
	{Name: "web_backend", Files: []string{"manage.py", "wsgi.py", "app.py", "server.js"}, Dirs: []string{"routes", "controllers", "api"}},
	{Name: "data_science", Files: []string{"environment.yml"}, Dirs: []string{"notebooks", "data", "models"}, Globs: []string{"*.ipynb"}},
	{Name: "mobile_app", Files: []string{"pubspec.yaml", "AndroidManifest.xml", "Podfile"}, Dirs: []string{"android", "ios"}, Globs: []string{"*.swift", "*.kt"}},
	{Name: "cli_tool", Dirs: []string{"cmd", "bin"}},
	{Name: "library", Files: []string{"setup.py", "pyproject.toml", "Cargo.toml", "pom.xml"}, Dirs: []string{"lib", "src"}},
	{Name: "infrastructure", Files: []string{"Dockerfile", "docker-compose.yml", "docker-compose.yaml"}, Dirs: []string{"terraform", "k8s", "helm"}, Globs: []string{"*.tf"}},
	{Name: "game", Dirs: []string{"Assets", "ProjectSettings"}, Globs: []string{"*.unity", "*.gd"}},
}

// DefaultConfig returns a Config populated with the built-in model.
func DefaultConfig() *Config {
	return &Config{
		IgnorePatterns: append([]string(nil), DefaultIgnorePatterns...),
		EnergyFactors: EnergyFactors{
			LinesOfCode: cloneFactors(defaultLineFactors),
			Complexity:  cloneFactors(defaultComplexityMultipliers),
			Frameworks:  cloneFactors(defaultFrameworkOverheads),
			Activities:  cloneFactors(defaultActivityRates),
			FileProcessing: FileProcessing{
				PerFile: 0.000001,
				PerKB:   0.0000002,
			},
			Dependencies: DependencyFactors{
				Heavy:  0.05,
				Medium: 0.01,
			},
		},
		CO2Factors:          cloneFactors(defaultCO2Factors),
		LanguageMultipliers: cloneFactors(defaultLanguageMultipliers),
		BuildFactors: BuildFactors{
			BaseFactor: 0.01,
			Tools:      cloneFactors(defaultBuildTools),
		},
		Equivalences: Equivalences{
			SmartphoneChargeKg: 0.00822,
			CarKmKg:            0.12,
			LightBulbHourKg:    0.0285,
			TreeYearKg:         21.77,
		},
		ImpactThresholds:  []float64{0.001, 0.01, 0.1, 1.0},
		DevelopmentShares: cloneFactors(defaultDevelopmentShares),
		HeavyDependencies: append([]string(nil), DefaultHeavyDependencies...),
		HeavyFrameworks:   append([]string(nil), DefaultHeavyFrameworks...),
		FrameworkRules:    append([]FrameworkRule(nil), DefaultFrameworkRules...),
		ProjectTypes:      append([]ProjectTypeRule(nil), DefaultProjectTypes...),
		GridType:          GridGlobalAverage,
		MaxWorkers:        0,
		CacheSize:         4096,
		HistoryPath:       ".greencode/history.db",
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

func cloneFactors(src map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
