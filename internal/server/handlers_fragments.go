// internal/server/handlers_fragments.go
package server

import (
	"html/template"
	"net/http"

	"lawdesk-api/internal/models"
	"lawdesk-api/pkg/format"
)

// Fragments feed the modal content loader: small HTML partials, never
// full pages. The client injects them into an open dialog as-is.
var fragmentFuncs = template.FuncMap{
	"documento": format.Document,
	"telefone":  format.Phone,
	"moeda":     format.Currency,
	"data":      format.Date,
}

var clientFragment = template.Must(template.New("cliente").Funcs(fragmentFuncs).Parse(`<div class="detalhe-cliente" data-id="{{.ID}}">
  <h3>{{.Name}}</h3>
  <dl>
    <dt>CPF/CNPJ</dt><dd>{{documento .Document}}</dd>
    <dt>Tipo</dt><dd>{{.Type}}</dd>
    {{if .Email}}<dt>E-mail</dt><dd>{{.Email}}</dd>{{end}}
    {{if .Phone}}<dt>Telefone</dt><dd>{{telefone .Phone}}</dd>{{end}}
    {{if .City}}<dt>Cidade</dt><dd>{{.City}}/{{.State}}</dd>{{end}}
  </dl>
  {{if not .Active}}<p class="alerta">Cliente inativo</p>{{end}}
</div>
`))

var caseFragment = template.Must(template.New("processo").Funcs(fragmentFuncs).Parse(`<div class="detalhe-processo" data-id="{{.Case.ID}}">
  <h3>{{.Case.Number}}</h3>
  <dl>
    <dt>Cliente</dt><dd>{{.Case.ClientName}}</dd>
    <dt>Status</dt><dd>{{.Case.Status}}</dd>
    {{if .Case.OpposingParty}}<dt>Parte contrária</dt><dd>{{.Case.OpposingParty}}</dd>{{end}}
    {{if .Case.Court}}<dt>Tribunal</dt><dd>{{.Case.Court}}</dd>{{end}}
    <dt>Advogado</dt><dd>{{.Case.Responsible}}</dd>
    <dt>Valor da causa</dt><dd>{{moeda .Case.ClaimAmount}}</dd>
  </dl>
  {{if .Deadlines}}<h4>Prazos pendentes</h4>
  <ul>
    {{range .Deadlines}}<li>{{data .DueDate}} — {{.Description}}</li>{{end}}
  </ul>{{end}}
</div>
`))

func (s *Server) renderFragment(w http.ResponseWriter, r *http.Request, tpl *template.Template, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		s.log.Error("fragment render failed", map[string]interface{}{
			"template": tpl.Name(),
			"error":    err.Error(),
		})
	}
}

func (s *Server) handleClientFragment(w http.ResponseWriter, r *http.Request) {
	client, err := s.repos.Clients.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	s.renderFragment(w, r, clientFragment, client)
}

func (s *Server) handleCaseFragment(w http.ResponseWriter, r *http.Request) {
	lc, err := s.repos.Cases.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	deadlines, err := s.repos.Cases.ListDeadlines(r.Context(), lc.ID, true)
	if err != nil {
		s.responder.Respond(w, r, err)
		return
	}
	s.renderFragment(w, r, caseFragment, struct {
		Case      *models.LawCase
		Deadlines []*models.Deadline
	}{lc, deadlines})
}
