package api

import (
	"fmt"
	"strings"
)

// Success messages are part of the public contract and stay in French.

// subject names an entity in messages, with its article and the gender
// past participles agree with.
type subject struct {
	label    string
	feminine bool
}

var (
	subjectBook     = subject{label: "Le livre"}
	subjectAuthor   = subject{label: "L'auteur"}
	subjectEditor   = subject{label: "L'éditeur"}
	subjectCategory = subject{label: "La catégorie", feminine: true}
	subjectUser     = subject{label: "L'utilisateur"}
	subjectRating   = subject{label: "L'appréciation", feminine: true}
	subjectComment  = subject{label: "Le commentaire"}
)

// agree inflects the leading participle of phrase, e.g. "mis à jour".
func (s subject) agree(phrase string) string {
	if !s.feminine {
		return phrase
	}
	word, rest, found := strings.Cut(phrase, " ")
	if !found {
		return word + "e"
	}
	return word + "e " + rest
}

// listMessage describes a listing. searchNoun names one item in the
// search variant, listNoun the whole collection otherwise.
func listMessage(searched bool, count int, searchNoun, listNoun string) string {
	if searched {
		return fmt.Sprintf("Il y a %d %s qui correspondent au terme de la recherche", count, searchNoun)
	}
	return fmt.Sprintf("La liste des %s a bien été récupérée.", listNoun)
}

func getMessage(s subject, id int64) string {
	return fmt.Sprintf("%s dont l'id vaut %d a bien été %s.", s.label, id, s.agree("récupéré"))
}

func createdMessage(s subject, name string) string {
	return joinWords(s.label, name, "a bien été", s.agree("créé"), "!")
}

func updatedMessage(s subject, name string, id int64) string {
	return joinWords(s.label, name, fmt.Sprintf("dont l'id vaut %d a été %s avec succès !", id, s.agree("mis à jour")))
}

func deletedMessage(s subject, name string) string {
	return joinWords(s.label, name, "a bien été", s.agree("supprimé"), "!")
}

// reviewMessage describes a rating or comment identified by its key.
func reviewMessage(s subject, userID, bookID int64, participle string) string {
	return fmt.Sprintf("%s de l'utilisateur %d pour le livre %d a bien été %s.", s.label, userID, bookID, s.agree(participle))
}

func booksOfMessage(owner string) string {
	return fmt.Sprintf("Les livres de %s ont bien été récupérés.", owner)
}

func joinWords(words ...string) string {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			parts = append(parts, w)
		}
	}
	return strings.Join(parts, " ")
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
