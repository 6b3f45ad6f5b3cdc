package models

// RevisionRow matches the A:E layout of the revision worksheet:
// Nombre, Fecha, Usuario, Pregunta, Respuesta.
type RevisionRow struct {
	Nombre    string `json:"nombre"`
	Fecha     string `json:"fecha"` // ISO day
	Usuario   string `json:"usuario"`
	Pregunta  string `json:"pregunta"`
	Respuesta string `json:"respuesta"`
}

// RevisionAnswer is one (question, answer) pair of a revision submit.
type RevisionAnswer struct {
	Pregunta  string `json:"pregunta" validate:"required,max=300"`
	Respuesta string `json:"respuesta" validate:"max=4000"`
}

// RevisionEntry is a revision row enriched with the extracted image URL
// when the answer cell holds an =IMAGE formula or a drive link.
type RevisionEntry struct {
	RevisionRow
	ImageURL string `json:"imageUrl,omitempty"`
}
