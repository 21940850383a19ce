package config

type WorkerKeyStruct struct {
	PersistSequencesQueue   string
	PersistSubmissionsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PersistSequencesQueue:   "persist_sequences_queue",
	PersistSubmissionsQueue: "persist_submissions_queue",
}
