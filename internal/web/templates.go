package web

import "html/template"

// Pages are rendered from inline templates so the binary ships
// self-contained. Styling is deliberately minimal.

const layoutTpl = `{{define "header"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.}} | AniStream</title>
<style>
body{margin:0;font-family:system-ui,sans-serif;background:#0f1115;color:#e6e6e6}
a{color:#7aa2f7;text-decoration:none}
a:hover{text-decoration:underline}
nav{display:flex;gap:1.2rem;align-items:center;padding:.8rem 1.5rem;background:#161a22;border-bottom:1px solid #232836}
nav .brand{font-weight:700;color:#e6e6e6;font-size:1.1rem}
nav form{margin-left:auto}
nav input{background:#0f1115;border:1px solid #2d3344;border-radius:4px;color:#e6e6e6;padding:.35rem .6rem}
main{max-width:960px;margin:0 auto;padding:1.5rem}
h1,h2{margin:.4rem 0 .8rem}
.grid{display:grid;grid-template-columns:repeat(auto-fill,minmax(160px,1fr));gap:1rem}
.card{background:#161a22;border:1px solid #232836;border-radius:6px;padding:.8rem}
.card .meta{color:#8a8f9e;font-size:.85rem}
.badge{display:inline-block;background:#232836;border-radius:3px;padding:.1rem .4rem;font-size:.75rem;margin-right:.3rem}
table{width:100%;border-collapse:collapse;margin:.8rem 0}
th,td{text-align:left;padding:.45rem .6rem;border-bottom:1px solid #232836}
.pager{display:flex;gap:1rem;align-items:center;margin:1.2rem 0}
.muted{color:#8a8f9e}
.player{width:100%;aspect-ratio:16/9;border:0;background:#000}
.srcpick a{margin-right:.6rem}
.srcpick .active{font-weight:700;text-decoration:underline}
form.auth{max-width:320px}
form.auth label{display:block;margin:.6rem 0 .2rem}
form.auth input{width:100%;box-sizing:border-box;background:#0f1115;border:1px solid #2d3344;border-radius:4px;color:#e6e6e6;padding:.45rem .6rem}
form.auth button{margin-top:1rem;background:#7aa2f7;border:0;border-radius:4px;padding:.5rem 1.2rem;color:#0f1115;font-weight:600;cursor:pointer}
.error{color:#f7768e;margin:.6rem 0}
</style>
</head>
<body>
<nav>
<a class="brand" href="/">AniStream</a>
<a href="/anime">Anime</a>
<a href="/movies">Movies</a>
<form action="/search" method="get"><input type="search" name="q" placeholder="Search..."></form>
</nav>
<main>
{{end}}
{{define "footer"}}
</main>
</body>
</html>
{{end}}`

const homeTpl = `{{template "header" "Home"}}
{{if .Featured}}
<section class="card">
<h1>{{.Featured.Title}}</h1>
<p class="muted">{{.Featured.Description}}</p>
<p>{{range .Featured.Genres}}<span class="badge">{{.}}</span>{{end}}</p>
<a href="/anime/{{.Featured.ID}}">View series</a>
</section>
{{end}}
<h2>Trending Anime</h2>
<div class="grid">
{{range .Trending}}
<div class="card"><a href="/anime/{{.ID}}">{{.Title}}</a><div class="meta">{{.Status}}{{if .Year}} &middot; {{.Year}}{{end}}</div></div>
{{else}}<p class="muted">Nothing here yet.</p>{{end}}
</div>
<h2>Popular Movies</h2>
<div class="grid">
{{range .Popular}}
<div class="card"><a href="/watch/movie/{{.ID}}">{{.Title}}</a><div class="meta">{{if .Year}}{{.Year}}{{end}}</div></div>
{{else}}<p class="muted">Nothing here yet.</p>{{end}}
</div>
<h2>Latest Episodes</h2>
<div class="grid">
{{range .Latest}}
<div class="card"><a href="/watch/episode/{{.ID}}">{{.Title}}</a><div class="meta">Episode {{.EpisodeNumber}}</div></div>
{{else}}<p class="muted">Nothing here yet.</p>{{end}}
</div>
{{template "footer"}}`

const listTpl = `{{define "listbody"}}
<h1>{{.Title}}</h1>
{{if .Query}}<p class="muted">Results for &ldquo;{{.Query}}&rdquo; ({{.Page.Total}})</p>{{end}}
<p class="muted">
Sort:
<a href="{{.Base}}?sort=latest">Latest</a>
<a href="{{.Base}}?sort=az">A-Z</a>
<a href="{{.Base}}?sort=za">Z-A</a>
<a href="{{.Base}}?sort=year">Year</a>
</p>
{{end}}
{{define "pager"}}
<div class="pager">
{{if .PrevURL}}<a href="{{.PrevURL}}">&laquo; Prev</a>{{end}}
<span class="muted">Page {{.Page.Number}} of {{.Page.TotalPages}}</span>
{{if .NextURL}}<a href="{{.NextURL}}">Next &raquo;</a>{{end}}
</div>
{{end}}`

const animeListTpl = `{{template "header" "Anime"}}
{{template "listbody" .}}
<div class="grid">
{{range .Page.Items}}
<div class="card"><a href="/anime/{{.ID}}">{{.Title}}</a><div class="meta">{{.Status}}{{if .Year}} &middot; {{.Year}}{{end}}</div></div>
{{else}}<p class="muted">No anime found.</p>{{end}}
</div>
{{template "pager" .}}
{{template "footer"}}`

const movieListTpl = `{{template "header" "Movies"}}
{{template "listbody" .}}
<div class="grid">
{{range .Page.Items}}
<div class="card"><a href="/watch/movie/{{.ID}}">{{.Title}}</a><div class="meta">{{if .Year}}{{.Year}}{{if .Duration}} &middot; {{end}}{{end}}{{if .Duration}}{{.Duration}} min{{end}}</div></div>
{{else}}<p class="muted">No movies found.</p>{{end}}
</div>
{{template "pager" .}}
{{template "footer"}}`

const searchTpl = `{{template "header" "Search"}}
<h1>Search</h1>
{{if .Query}}<p class="muted">Results for &ldquo;{{.Query}}&rdquo;</p>{{else}}<p class="muted">Browsing everything.</p>{{end}}
<h2>Anime ({{.Anime.Total}})</h2>
<div class="grid">
{{range .Anime.Items}}
<div class="card"><a href="/anime/{{.ID}}">{{.Title}}</a><div class="meta">{{.Status}}</div></div>
{{else}}<p class="muted">No anime matched.</p>{{end}}
</div>
<h2>Movies ({{.Movies.Total}})</h2>
<div class="grid">
{{range .Movies.Items}}
<div class="card"><a href="/watch/movie/{{.ID}}">{{.Title}}</a><div class="meta">{{if .Year}}{{.Year}}{{end}}</div></div>
{{else}}<p class="muted">No movies matched.</p>{{end}}
</div>
{{template "footer"}}`

const animeDetailTpl = `{{template "header" .Anime.Title}}
<h1>{{.Anime.Title}}</h1>
<p>{{range .Anime.Genres}}<span class="badge">{{.}}</span>{{end}}
<span class="badge">{{.Anime.Status}}</span>
{{if .Anime.Year}}<span class="badge">{{.Anime.Year}}</span>{{end}}
{{if .Anime.Rating}}<span class="badge">&#9733; {{.Anime.Rating}}</span>{{end}}</p>
<p class="muted">{{.Anime.Description}}</p>
<h2>Episodes</h2>
<table>
<tr><th>#</th><th>Title</th><th></th></tr>
{{range .Episodes}}
<tr><td>{{.EpisodeNumber}}</td><td>{{.Title}}</td><td><a href="/watch/episode/{{.ID}}">Watch</a></td></tr>
{{else}}
<tr><td colspan="3" class="muted">No episodes yet.</td></tr>
{{end}}
</table>
{{template "footer"}}`

const watchTpl = `{{template "header" .Title}}
<p><a href="{{.BackURL}}">&laquo; Back</a></p>
<h1>{{.Title}}</h1>
{{if .Subtitle}}<p class="muted">{{.Subtitle}}</p>{{end}}
{{if .Selected}}
<iframe class="player" src="{{.Selected.VideoURL}}" allowfullscreen></iframe>
<p class="srcpick">
{{$sel := .Selected}}{{$base := .SrcBase}}
{{range .Sources}}
<a {{if eq .ID $sel.ID}}class="active"{{end}} href="{{$base}}?src={{.ID}}">{{.ServerName}}{{if .Quality}} ({{.Quality}}){{end}}</a>
{{end}}
</p>
{{else}}
<p class="muted">No video sources available yet.</p>
{{end}}
{{template "footer"}}`

const loginTpl = `{{template "header" "Login"}}
<h1>Login</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form class="auth" method="post" action="/login">
<label for="username">Username</label>
<input id="username" name="username" autocomplete="username" required>
<label for="password">Password</label>
<input id="password" name="password" type="password" autocomplete="current-password" required>
<button type="submit">Sign in</button>
</form>
{{template "footer"}}`

const dashboardTpl = `{{template "header" "Admin"}}
<h1>Admin Dashboard</h1>
<p class="muted">Signed in as {{.User.Username}}</p>
<div class="grid">
<div class="card"><h2>{{.AnimeCount}}</h2><div class="meta">Anime series</div></div>
<div class="card"><h2>{{.MovieCount}}</h2><div class="meta">Movies</div></div>
<div class="card"><h2>{{.EpisodeCount}}</h2><div class="meta">Episodes</div></div>
<div class="card"><h2>{{.ServerCount}}</h2><div class="meta">Servers</div></div>
</div>
<h2>Server Fleet</h2>
<table>
<tr><th>#</th><th>Name</th><th>Region</th><th>Status</th><th>Storage</th></tr>
{{range .Servers}}
<tr><td>{{.Number}}</td><td>{{.Name}}</td><td>{{.Region}}</td><td>{{.Status}}</td><td>{{.StorageUsed}} / {{.TotalStorage}} GB</td></tr>
{{else}}
<tr><td colspan="5" class="muted">No servers registered.</td></tr>
{{end}}
</table>
{{template "footer"}}`

const messageTpl = `{{template "header" .Title}}
<h1>{{.Title}}</h1>
<p class="muted">{{.Body}}</p>
<p><a href="/">Back to home</a></p>
{{template "footer"}}`

func newTemplates() *template.Template {
	root := template.Must(template.New("layout").Parse(layoutTpl))
	template.Must(root.Parse(listTpl))
	for name, body := range map[string]string{
		"home":         homeTpl,
		"anime":        animeListTpl,
		"movies":       movieListTpl,
		"search":       searchTpl,
		"anime_detail": animeDetailTpl,
		"watch":        watchTpl,
		"login":        loginTpl,
		"dashboard":    dashboardTpl,
		"message":      messageTpl,
	} {
		template.Must(root.New(name).Parse(body))
	}
	return root
}
