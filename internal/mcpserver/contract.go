package mcpserver

// DocumentFormatContract describes the canonical JSON document shape that
// export produces and import accepts.
const DocumentFormatContract = `# Medcat Document Format Contract

The whole catalog travels as one UTF-8 JSON document. Export writes it
pretty-printed under the filename ` + "`EH-doctor-data-<YYYY-MM-DD>.json`" + `;
import accepts the same shape and replaces the current document wholesale
(no merge, no undo).

## Structure

` + "```" + `json
{
  "version": 1,
  "clinic": {
    "name": "EH Clinic",
    "owner": "Practice Owner"
  },
  "diseases": [
    {
      "id": "opaque-unique-id",
      "name": "Anaemia (General)",
      "symptoms": ["Fatigue", "Pallor"],
      "labTests": ["Full blood count"],
      "diagnosisNotes": "Free text.",
      "treatment": "Free text.",
      "references": [
        {
          "id": "opaque-unique-id",
          "kind": "google",
          "label": "Overview search",
          "url": "https://www.google.com/search?q=...",
          "note": ""
        }
      ]
    }
  ]
}
` + "```" + `

## Rules

1. **` + "`diseases`" + ` is mandatory.** A document without it (even an otherwise
   valid JSON object) is rejected by import. An empty list is fine.
2. **Ids are opaque.** They are unique within the document, generated once,
   and never reused. Import keeps whatever ids the file carries.
3. **Reference kinds** are ` + "`google`" + ` (the ` + "`url`" + ` field is meaningful) or
   ` + "`note`" + ` (the ` + "`note`" + ` field is meaningful). The unused field may be
   present as a placeholder.
4. **No credentials travel with the document.** The device pass-key hash is
   stored separately and is never exported or imported.
5. **Encoding** is UTF-8. Export is pretty-printed with a trailing newline;
   import accepts any JSON whitespace.
`
