package sqlinline

const QInsertUser = `--sql 8807a611-3a43-4fcf-b51a-f2dcef9e841a
insert into users (id, name, email, password_hash, is_admin)
values ($1::uuid, $2::text, lower($3::text), $4::text, false)
returning id, name, email, is_admin, created_at;
`

const QSelectUserByEmail = `--sql f48072d4-0325-4e3f-8dfa-5fd1e0136147
select id, name, email, password_hash, is_admin, google_tokens, created_at, updated_at
from users
where email = lower($1::text)
limit 1;
`

const QSelectUserByID = `--sql 3cc1a624-0dbf-42cd-9b19-50d1e4709282
select id, name, email, password_hash, is_admin, google_tokens, created_at, updated_at
from users
where id = $1::uuid
limit 1;
`

const QUpdateGoogleTokens = `--sql 30b04858-bbb0-4ceb-b8c2-4038234eee6d
update users
set google_tokens = $2::jsonb,
    updated_at = now()
where id = $1::uuid;
`

const QListUsers = `--sql d5ce2169-8525-4c31-aef5-8004e5dc45c4
select id, name, email, is_admin, (google_tokens is not null) as calendar_linked, created_at
from users
order by created_at desc
limit $1::int;
`
