// Package identify fuses every extraction source for a matched session into a
// resolved identity: who coached, who attended, which program week, and what
// kind of session it was.
//
// Sources are consulted in strict priority order (file content, participant
// roster, host, meeting topic, folder path). A field is only overwritten by a
// strictly higher confidence; ties keep the earlier, higher-priority source.
// Every accepted value appends a human-readable evidence string so a resolved
// identity can always explain itself.
//
// Ambiguity is never an error here. Unresolvable fields stay empty with low
// confidence and downstream categorization handles them.
package identify
