package aeratron

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/brutella/hap/log"

	"github.com/go-chi/chi/v5"
)

// WebPanel is the plain-HTTP control surface next to the HomeKit one. Both
// end in the same controller setters, so they can never disagree on state.
type WebPanel struct {
	ctrl   *Controller
	acc    *FanAccessory
	events *EventLog
}

func NewWebPanel(ctrl *Controller, acc *FanAccessory, events *EventLog) *WebPanel {
	return &WebPanel{ctrl: ctrl, acc: acc, events: events}
}

var panelTmpl = template.Must(template.New("panel").Parse(`<!DOCTYPE html>
<html>
<head><title>Aeratron</title></head>
<body>
<h1>Aeratron</h1>
<p>Speed: {{.Speed}} &mdash; Direction: {{.Direction}} &mdash; Light: {{.Light}}</p>
<h2>Fan</h2>
<form method="post" action="/fan/off"><button>Off</button></form>
<form method="post" action="/fan/on"><button>On</button></form>
{{range .Levels}}<form method="post" action="/fan/{{.}}"><button>Speed {{.}}</button></form>
{{end}}
<h2>Direction</h2>
<form method="post" action="/direction/left"><button>Left (summer)</button></form>
<form method="post" action="/direction/right"><button>Right (winter)</button></form>
<h2>Light</h2>
<form method="post" action="/light/on"><button>On</button></form>
<form method="post" action="/light/off"><button>Off</button></form>
<p><a href="/log">event log</a></p>
</body>
</html>
`))

func (p *WebPanel) panel(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Status
		Levels []int
	}{p.ctrl.Status(), []int{1, 2, 3, 4, 5, 6}}

	if err := panelTmpl.Execute(w, data); err != nil {
		log.Info.Printf("panel render failed: %s", err.Error())
	}
}

func (p *WebPanel) status(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(p.ctrl.Status()); err != nil {
		log.Info.Printf("status encode failed: %s", err.Error())
	}
}

func (p *WebPanel) logTail(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for _, line := range p.events.Tail() {
		w.Write([]byte(line + "\n"))
	}
}

func (p *WebPanel) setSpeed(w http.ResponseWriter, r *http.Request) {
	arg := chi.URLParam(r, "speed")

	var s Speed
	switch arg {
	case "off":
		s = SpeedOff
	case "on":
		s = SpeedOn
	default:
		lvl, err := strconv.Atoi(arg)
		if err != nil || lvl < 1 || lvl > 6 {
			log.Info.Printf("bad speed requested: %s", arg)
			http.Error(w, `{ "status": "bad speed" }`, http.StatusBadRequest)
			return
		}
		s = Speed(lvl)
	}

	p.ctrl.SetSpeed(s)
	p.acc.Reflect()
	p.status(w, r)
}

func (p *WebPanel) setDirection(w http.ResponseWriter, r *http.Request) {
	arg := chi.URLParam(r, "dir")

	var d Direction
	switch arg {
	case "left":
		d = Left
	case "right":
		d = Right
	default:
		log.Info.Printf("bad direction requested: %s", arg)
		http.Error(w, `{ "status": "bad direction" }`, http.StatusBadRequest)
		return
	}

	p.ctrl.SetDirection(d)
	p.acc.Reflect()
	p.status(w, r)
}

func (p *WebPanel) setLight(w http.ResponseWriter, r *http.Request) {
	arg := chi.URLParam(r, "state")

	var l Light
	switch arg {
	case "on":
		l = LightOn
	case "off":
		l = LightOff
	default:
		log.Info.Printf("bad light state requested: %s", arg)
		http.Error(w, `{ "status": "bad light state" }`, http.StatusBadRequest)
		return
	}

	p.ctrl.SetLight(l)
	p.acc.Reflect()
	p.status(w, r)
}

// Serve runs the control panel until ctx is canceled.
func (p *WebPanel) Serve(ctx context.Context, addr string) {
	router := chi.NewRouter()
	router.Get("/", p.panel)
	router.Get("/status", p.status)
	router.Get("/log", p.logTail)
	router.Post("/fan/{speed}", p.setSpeed)
	router.Post("/direction/{dir}", p.setDirection)
	router.Post("/light/{state}", p.setLight)

	srv := &http.Server{
		Handler:      router,
		Addr:         addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	log.Info.Printf("starting control panel at %s", addr)
	go srv.ListenAndServe()
	<-ctx.Done()
	log.Info.Printf("stopping control panel")
	srv.Shutdown(context.Background())
}
