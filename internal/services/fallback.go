package services

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/cognicursos/backend-go/internal/models"
)

const fallbackDescriptionLimit = 200

type fallbackTopic struct {
	keywords []string
	answer   func(course string) string
}

// Checked in order; the first topic with a matching keyword wins. Keywords
// padded with spaces only match whole words.
var fallbackTopics = []fallbackTopic{
	{
		keywords: []string{"conceito", "básico", "basico", "fundament", "introdu", "iniciante", "concept", "basic", "beginner"},
		answer: func(course string) string {
			return fmt.Sprintf("No curso %s, os conceitos básicos são a base para todo o restante do conteúdo. "+
				"Comece pelas definições fundamentais, pratique com exemplos pequenos e avance aos poucos. "+
				"Revise cada módulo introdutório antes de seguir para os tópicos mais avançados.", course)
		},
	},
	{
		keywords: []string{"função", "funcao", "funções", "funcoes", "function", " def ", "método", "metodo", "method"},
		answer: func(course string) string {
			return fmt.Sprintf("No curso %s, funções são blocos de código reutilizáveis que recebem parâmetros, "+
				"executam uma tarefa e podem retornar um valor. Em Python, por exemplo, uma função é definida com "+
				"a palavra-chave def: def saudacao(nome): return f\"Olá, {nome}!\". "+
				"Usar funções deixa o código mais organizado e fácil de testar.", course)
		},
	},
	{
		keywords: []string{"loop", "laço", "laco", "repetição", "repeticao", "while", " for ", "iteração", "iteracao", "iterate"},
		answer: func(course string) string {
			return fmt.Sprintf("No curso %s, loops (laços de repetição) permitem executar um bloco de código várias vezes. "+
				"O laço for percorre os elementos de uma sequência, como em: for item in lista: print(item). "+
				"O laço while repete enquanto uma condição for verdadeira, como em: while contador < 10: contador += 1. "+
				"Cuidado com condições que nunca ficam falsas, pois geram loops infinitos.", course)
		},
	},
	{
		keywords: []string{"lista", "list", "dicionário", "dicionario", "dictionar", "dict", "tupla", "tuple", "conjunto", "estrutura de dados", "data structure", "array"},
		answer: func(course string) string {
			return fmt.Sprintf("No curso %s, estruturas de dados organizam informações na memória. "+
				"Listas guardam sequências ordenadas e mutáveis, tuplas são sequências imutáveis, "+
				"dicionários associam chaves a valores e conjuntos armazenam elementos únicos. "+
				"Escolher a estrutura certa torna o programa mais simples e eficiente.", course)
		},
	},
	{
		keywords: []string{"erro", "exceção", "excecao", "exception", "error", "try"},
		answer: func(course string) string {
			return fmt.Sprintf("No curso %s, o tratamento de erros evita que o programa pare de forma inesperada. "+
				"Em Python, use try para envolver o código que pode falhar e except para tratar a exceção: "+
				"try: valor = int(texto) except ValueError: print(\"Valor inválido\"). "+
				"Leia sempre a mensagem de erro, ela indica o tipo e a linha do problema.", course)
		},
	},
}

// FallbackAnswer returns a deterministic answer for the course when no model
// can be used. The result depends only on the course and the question.
func FallbackAnswer(course *models.Course, question string) string {
	q := normalizeQuestion(question)
	for _, topic := range fallbackTopics {
		for _, kw := range topic.keywords {
			if strings.Contains(q, kw) {
				return topic.answer(course.Title)
			}
		}
	}
	return fmt.Sprintf("Obrigado pela sua pergunta sobre o curso %s: \"%s\". "+
		"No momento o assistente de IA não está disponível, mas este curso aborda o seguinte: %s "+
		"Consulte o material do curso ou tente novamente mais tarde para uma resposta mais detalhada.",
		course.Title, question, truncateRunes(course.Description, fallbackDescriptionLimit))
}

// normalizeQuestion lower-cases the question and replaces punctuation with
// single spaces, padding both ends so whole-word keywords match at the edges.
func normalizeQuestion(question string) string {
	words := strings.FieldsFunc(strings.ToLower(question), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return " " + strings.Join(words, " ") + " "
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
