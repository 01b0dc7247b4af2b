package db

// SchemaSQL contains the annotation store schema initialization SQL.
const SchemaSQL = `
    -- ==========================================================================
    -- LABELLER TABLE
    -- ==========================================================================
    -- Keyed by labeller name so registration is naturally idempotent.
    DEFINE TABLE IF NOT EXISTS labeller SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS name ON labeller TYPE string;
    DEFINE FIELD IF NOT EXISTS session_token ON labeller TYPE string;
    DEFINE FIELD IF NOT EXISTS created ON labeller TYPE datetime DEFAULT time::now();

    -- ==========================================================================
    -- EPISODE NOTE TABLE
    -- ==========================================================================
    -- One record per canonical (org, dataset, episode) identity.
    DEFINE TABLE IF NOT EXISTS episode_note SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS org ON episode_note TYPE string;
    DEFINE FIELD IF NOT EXISTS dataset ON episode_note TYPE string;
    DEFINE FIELD IF NOT EXISTS episode ON episode_note TYPE int;
    DEFINE FIELD IF NOT EXISTS labeller ON episode_note TYPE string;
    DEFINE FIELD IF NOT EXISTS quality ON episode_note TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS key_notes ON episode_note TYPE array<string>;
    -- Either an object of item -> positive count, or the string "none"
    -- when the labeller explicitly recorded an empty item set.
    DEFINE FIELD IF NOT EXISTS items ON episode_note TYPE option<object | string> FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS arms ON episode_note TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS remarks ON episode_note TYPE string DEFAULT "";
    DEFINE FIELD IF NOT EXISTS updated ON episode_note TYPE datetime;

    DEFINE INDEX IF NOT EXISTS episode_note_key ON episode_note FIELDS org, dataset, episode UNIQUE;

    -- ==========================================================================
    -- FRAME NOTE TABLE
    -- ==========================================================================
    -- One record per annotated frame of an episode.
    DEFINE TABLE IF NOT EXISTS frame_note SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS org ON frame_note TYPE string;
    DEFINE FIELD IF NOT EXISTS dataset ON frame_note TYPE string;
    DEFINE FIELD IF NOT EXISTS episode ON frame_note TYPE int;
    DEFINE FIELD IF NOT EXISTS frame ON frame_note TYPE int;
    DEFINE FIELD IF NOT EXISTS labeller ON frame_note TYPE string;
    DEFINE FIELD IF NOT EXISTS phases ON frame_note TYPE array<string>;
    DEFINE FIELD IF NOT EXISTS issues ON frame_note TYPE array<string>;
    DEFINE FIELD IF NOT EXISTS notes ON frame_note TYPE string DEFAULT "";
    DEFINE FIELD IF NOT EXISTS updated ON frame_note TYPE datetime;

    DEFINE INDEX IF NOT EXISTS frame_note_key ON frame_note FIELDS org, dataset, episode, frame UNIQUE;
    DEFINE INDEX IF NOT EXISTS frame_note_episode ON frame_note FIELDS org, dataset, episode;
`
