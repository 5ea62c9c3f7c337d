package ignore

// DefaultOverrideFile 是项目根目录下可选的忽略规则文件名，每行一个 glob。
const DefaultOverrideFile = ".toklocignore"

// Ecosystem 描述一个技术生态的忽略规则包。
// Markers 中任意一个出现在项目根目录下即启用该生态；支持 * ? [] 通配。
type Ecosystem struct {
	Name     string
	Markers  []string
	Patterns []string
}

// CommonPatterns 返回所有项目都会启用的基础忽略规则：
// 构建产物、锁文件、版本控制元数据与系统垃圾文件。
func CommonPatterns() []string {
	return []string{
		"*.min.js",
		"*.min.css",
		"*.map",
		"*.lock",
		"package-lock.json",
		"yarn.lock",
		"pnpm-lock.yaml",
		"go.sum",
		".git/*",
		".svn/*",
		".hg/*",
		"dist/*",
		"build/*",
		"coverage/*",
		"*.log",
		"*.tmp",
		"*.swp",
		".DS_Store",
		"Thumbs.db",
		"desktop.ini",
	}
}

// DefaultEcosystems 返回内置的生态规则包。
func DefaultEcosystems() []Ecosystem {
	return []Ecosystem{
		{
			Name:    "node",
			Markers: []string{"package.json"},
			Patterns: []string{
				"node_modules/*",
				"*/node_modules/*",
				".next/*",
				".nuxt/*",
				".cache/*",
				".yarn/*",
				"*.bundle.js",
				"*.chunk.js",
				"npm-debug.log*",
				"yarn-error.log",
			},
		},
		{
			Name:    "python",
			Markers: []string{"requirements.txt", "setup.py"},
			Patterns: []string{
				"__pycache__/*",
				"*/__pycache__/*",
				"*.pyc",
				"*.pyo",
				"*.pyd",
				"*.egg-info/*",
				".eggs/*",
				"venv/*",
				".venv/*",
				".pytest_cache/*",
				".mypy_cache/*",
				".tox/*",
				"htmlcov/*",
			},
		},
		{
			Name:    "java",
			Markers: []string{"pom.xml", "build.gradle"},
			Patterns: []string{
				"target/*",
				"*.class",
				"*.jar",
				"*.war",
				".gradle/*",
				"gradle/wrapper/*",
				"out/*",
				".idea/*",
			},
		},
		{
			Name:    "dotnet",
			Markers: []string{"*.csproj", "*.sln"},
			Patterns: []string{
				"bin/*",
				"obj/*",
				"*.dll",
				"*.exe",
				"*.pdb",
				"packages/*",
				"*.Designer.cs",
				".vs/*",
			},
		},
	}
}
