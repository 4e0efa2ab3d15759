package services

import (
	"strings"
	"text/template"

	"github.com/cognicursos/backend-go/internal/models"
)

var promptTemplate = template.Must(template.New("pergunta").Parse(`Você é um assistente de aprendizado para o curso: {{.Titulo}}.

Informações sobre o curso:
- Título: {{.Titulo}}
- Descrição: {{.Descricao}}
- Nível: {{.Nivel}}
- Categoria: {{.Categoria}}

Contexto adicional: {{.Contexto}}

Pergunta do aluno: {{.Pergunta}}

Sua resposta deve ser educativa, clara e útil. Forneça exemplos quando apropriado.
Resposta:`))

type promptData struct {
	Titulo    string
	Descricao string
	Nivel     string
	Categoria string
	Contexto  string
	Pergunta  string
}

// BuildPrompt fills the single-turn prompt for a course question.
func BuildPrompt(course *models.Course, question, context string) (string, error) {
	data := promptData{
		Titulo:    course.Title,
		Descricao: course.Description,
		Nivel:     course.Level.Label(),
		Contexto:  context,
		Pergunta:  question,
	}
	if course.Category != nil {
		data.Categoria = course.Category.Name
	}

	var sb strings.Builder
	if err := promptTemplate.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
