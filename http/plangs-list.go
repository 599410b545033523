package http

import (
	"net/http"

	"github.com/go-chi/httplog/v2"

	"github.com/devtutor/backend/httpjson"
	"github.com/devtutor/backend/planglist"
)

// ProgrammingLang represents a programming language.
type ProgrammingLang struct {
	ID           string  `json:"id"`
	FullName     string  `json:"fullName"`
	SourceExt    string  `json:"sourceExt"`
	MainFilename string  `json:"mainFilename"`
	CompileCmd   *string `json:"compileCmd"`
	ExecuteCmd   string  `json:"executeCmd"`
	Enabled      bool    `json:"enabled"`
}

func (httpserver *HttpServer) listProgrammingLangs(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	type listProgLangsResponse []*ProgrammingLang

	langs, err := planglist.ListProgrammingLanguages()
	if err != nil {
		httpjson.HandleError(logger, w, err)
		return
	}

	mapProgrammingLangResponse := func(lang *planglist.ProgrammingLang) *ProgrammingLang {
		return &ProgrammingLang{
			ID:           lang.ID,
			FullName:     lang.FullName,
			SourceExt:    lang.SourceExt,
			MainFilename: lang.MainFilename,
			CompileCmd:   lang.CompileCmd,
			ExecuteCmd:   lang.ExecuteCmd,
			Enabled:      lang.Enabled,
		}
	}

	mapProgLangsResponse := func(langs []planglist.ProgrammingLang) listProgLangsResponse {
		response := make(listProgLangsResponse, len(langs))
		for i, lang := range langs {
			response[i] = mapProgrammingLangResponse(&lang)
		}
		return response
	}

	response := mapProgLangsResponse(langs)

	httpjson.WriteSuccessJson(w, response)
}
